// Command gen-jwt prints a development bearer token for the local server.
// It takes no flags and reads no environment.
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/bionicotaku/lingo-utils-devjwt"
)

func main() {
	if err := run(os.Stdout, time.Now); err != nil {
		log.Fatalf("mint token: %v", err)
	}
}

func run(w io.Writer, now func() time.Time) error {
	cfg := devjwt.DevMinterConfig()
	cfg.Clock = now

	minter, err := devjwt.NewMinter(cfg)
	if err != nil {
		return err
	}
	token, err := minter.Mint(devjwt.DefaultDevClaims())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, "JWT Token:", token)
	return err
}
