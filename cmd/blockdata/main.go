// Command blockdata downloads a vanilla block dataset. The transformation
// catalog covers a fixed set of namespaced block names; this fetches the
// authoritative list for a game version so the catalog tests can be
// checked against it when new versions land.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	get "github.com/hashicorp/go-getter"
)

func main() {
	var (
		base = flag.String("base", "https://github.com/PrismarineJS/minecraft-data.git", "base url")
		ver  = flag.String("version", "1.21.8", "game version of the block dataset")
		out  = flag.String("o", "./blockdata", "output dir path")
	)
	flag.Parse()

	if *out == "" {
		fmt.Fprintln(os.Stderr, "output dir path required")
		os.Exit(1)
	}
	if *ver == "" {
		fmt.Fprintln(os.Stderr, "version required")
		os.Exit(1)
	}

	path := fmt.Sprintf("%s/pc-%s", *out, *ver)

	if err := os.RemoveAll(path); err != nil {
		log.Fatal(err)
	}

	log.Printf("downloading block dataset to %s", path)

	// https://github.com/PrismarineJS/minecraft-data/tree/master/data/pc/<version>
	url := fmt.Sprintf("git::%s//data/pc/%s", *base, *ver)
	if err := get.Get(path, url); err != nil {
		log.Fatal(err)
	}

	log.Printf("done downloading block dataset to %s", path)
}
