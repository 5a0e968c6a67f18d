// Command pngdump feeds a PNG file through the streaming decoder and
// re-encodes whatever it reconstructs, as a quick way to exercise the
// decoder against a real file from the command line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"

	streampng "streampng.dev/png"
)

func main() {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Fatal(err)
	}
	defaultFilePath := filepath.Join(home, "Pictures", "smiley.png")

	var pngPath string
	var outPath string
	var chunkSize int
	flag.StringVar(&pngPath, "png", defaultFilePath, "png file to decode")
	flag.StringVar(&outPath, "out", "image.png", "where to write the re-encoded image")
	flag.IntVar(&chunkSize, "feed", 4096, "bytes fed to the decoder per Write call")
	flag.Parse()

	file, err := os.Open(pngPath)
	if err != nil {
		log.Fatal(err)
	}
	defer file.Close()

	log.Printf("decoding %s\n", pngPath)

	d := streampng.NewDecoder()

	var img *image.NRGBA
	var rowsSeen uint32

	d.SetInfoFunc(func(d *streampng.Decoder) {
		log.Printf("header: %dx%d depth=%d colorType=%d gamma=%v",
			d.Width(), d.Height(), d.BitDepth(), d.ColorType(), d.HasGamma())
		img = image.NewNRGBA(image.Rect(0, 0, int(d.Width()), int(d.Height())))
	})
	d.SetRowFunc(func(d *streampng.Decoder, row uint32, data []byte) {
		rgba := d.Transform(data)
		y := int(row)
		copy(img.Pix[y*img.Stride:(y+1)*img.Stride], rgba)
		rowsSeen++
	})
	d.SetTextFunc(func(d *streampng.Decoder, keyword, text string) {
		log.Printf("text chunk %q: %d bytes", keyword, len(text))
	})
	d.SetUnknownChunkFunc(func(d *streampng.Decoder, chunkType [4]byte, data []byte) {
		log.Printf("ancillary chunk %s: %d bytes", string(chunkType[:]), len(data))
	})

	r := bufio.NewReader(file)
	buf := make([]byte, chunkSize)
	for {
		n, rerr := r.Read(buf)
		if n > 0 {
			if _, werr := d.Write(buf[:n]); werr != nil {
				log.Fatalf("decode failed: %v", werr)
			}
		}
		if rerr != nil {
			break
		}
	}
	if _, err := d.Write(nil); err != nil {
		log.Fatalf("stream did not end cleanly: %v", err)
	}
	if err := d.Close(); err != nil {
		log.Fatal(err)
	}

	if img == nil {
		log.Fatal("decoder never produced a header")
	}
	log.Printf("decoded %d rows", rowsSeen)

	f, err := os.Create(outPath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("wrote %s\n", outPath)
}
