// Command audiotag reads, converts and edits audio file tags.
//
// Usage:
//
//	audiotag props song.flac
//	audiotag tags --output yaml song.m4a
//	audiotag copy song.flac song.mp3
//	audiotag set --title "Song" --artist A --artist B song.opus
//	audiotag atoms book.m4b
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
