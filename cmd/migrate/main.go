package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"

	"github.com/fdg312/nafld-hub/internal/config"
	"github.com/fdg312/nafld-hub/internal/dbmigrate"
)

func main() {
	dir := flag.String("dir", "", "read migrations from this directory instead of the embedded set")
	list := flag.Bool("list", false, "print the embedded migrations and exit")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: migrate [-dir path] [%s]\n", strings.Join(dbmigrate.Commands, "|"))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *list {
		names, err := dbmigrate.Embedded()
		if err != nil {
			log.Fatal(err)
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	if flag.NArg() != 1 || !dbmigrate.IsCommand(flag.Arg(0)) {
		flag.Usage()
		os.Exit(2)
	}
	command := flag.Arg(0)

	cfg := config.Load()
	target, err := dbmigrate.SelectTarget(cfg, false)
	if err != nil {
		log.Fatal(err)
	}

	if target.Warning != "" {
		log.Printf("WARN migrate: %s", target.Warning)
	}
	log.Printf("INFO migrate: command=%s using=%s", command, target.Source)

	if err := dbmigrate.Run(context.Background(), command, target.URL, *dir); err != nil {
		log.Fatal(err)
	}

	log.Printf("INFO migrate: %s completed successfully", command)
}
