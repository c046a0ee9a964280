package main

import (
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"

	_ "gocloud.dev/blob/fileblob"

	"github.com/sfomuseum/go-image-rename/exitcode"
)

func main() {

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitcode.UsageError)
	}
}
