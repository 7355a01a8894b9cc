// Command pktwalk inspects the JPEG 2000 packet iterator directly: it
// walks the emitted packet sequence or precinct geometry for a
// synthetic tile configuration, without encoding or decoding a real
// codestream.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/quietpixel/jpeg2000/cmd/pktwalk/cmd"
)

func main() {
	if err := cmd.NewRoot(context.Background()).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
