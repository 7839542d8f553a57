// ABOUTME: Entry point for the Chorus offline renderer
// ABOUTME: Renders voices or a singing preset to a WAV file and optionally uploads it
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/Resonate-Protocol/chorus-go/internal/app"
	"github.com/Resonate-Protocol/chorus-go/internal/export"
	"github.com/Resonate-Protocol/chorus-go/pkg/audio/encode"
	"github.com/Resonate-Protocol/chorus-go/pkg/render"
)

var (
	voicesFile = flag.String("voices", "", "JSON file of voices (default: built-in four-part choir)")
	preset     = flag.String("preset", "", "Formant singing preset (soprano-airy, alto-soft, tenor-bright, baritone-warm)")
	scale      = flag.String("scale", "major", "Preset scale (major or minor)")
	bpm        = flag.Int("bpm", 100, "Preset tempo in beats per minute")
	vowels     = flag.String("vowels", "AEIOU", "Preset vowel cycle")
	duration   = flag.Float64("duration", render.DefaultDuration, "Mix length in seconds")
	sampleRate = flag.Int("rate", render.DefaultSampleRate, "Sample rate in Hz")
	channels   = flag.Int("channels", render.DefaultChannels, "Output channels")
	bitDepth   = flag.Int("bits", 16, "WAV bit depth (16 or 24)")
	seed       = flag.Int64("seed", 0, "Melody seed (default: derived from voice parameters)")
	name       = flag.String("name", "", "Mix name used for the object key")
	title      = flag.String("title", "", "Mix title (default: the voice name or \"Harmony of N Objects\")")
	out        = flag.String("out", "chorus.wav", "Output WAV path, - for stdout")
	dataURL    = flag.Bool("data-url", false, "Print the mix as a data URL instead of writing a file")
	upload     = flag.Bool("upload", false, "Upload the mix to S3 (configured by flags or CHORUS_S3_* env)")
	s3Endpoint = flag.String("s3-endpoint", "", "S3 endpoint for R2, MinIO and similar")
	s3Bucket   = flag.String("s3-bucket", "", "S3 bucket")
	s3Region   = flag.String("s3-region", "", "S3 region (default: auto)")
)

func main() {
	flag.Parse()

	log.SetOutput(os.Stderr)

	cfg := app.Config{
		Name:       *name,
		Title:      *title,
		VoicesFile: *voicesFile,
		Preset:     *preset,
		Scale:      *scale,
		BPM:        *bpm,
		Vowels:     *vowels,
		Duration:   *duration,
		SampleRate: *sampleRate,
		Channels:   *channels,
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			cfg.Seed = seed
		}
	})

	mix, err := app.RenderMix(cfg)
	if err != nil {
		log.Fatalf("Render failed: %v", err)
	}

	wav := mix.WAV
	if *bitDepth != 16 {
		wav, err = encode.EncodeWAV(mix.Result.Mixed, *bitDepth)
		if err != nil {
			log.Fatalf("Encode failed: %v", err)
		}
	}

	log.Printf("%s (harmony: %v)", mix.Title, mix.HarmonyMode)
	for _, t := range mix.Result.Tracks {
		log.Printf("Track %-12s %-8s gain %.2f", t.Name, t.VocalRange, t.Gain)
	}

	switch {
	case *dataURL:
		fmt.Println(encode.DataURL(wav))
	case *out == "-":
		if _, err := os.Stdout.Write(wav); err != nil {
			log.Fatalf("Write failed: %v", err)
		}
	default:
		if err := os.WriteFile(*out, wav, 0644); err != nil {
			log.Fatalf("Write failed: %v", err)
		}
		log.Printf("Wrote %s (%d bytes)", *out, len(wav))
	}

	if !*upload {
		return
	}

	s3cfg := export.S3Config{
		Endpoint: *s3Endpoint,
		Bucket:   *s3Bucket,
		Region:   *s3Region,
	}.WithEnv()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	key := export.ObjectKey(mix.Name, mix.Result.ID)
	if err := export.Upload(ctx, s3cfg, key, wav); err != nil {
		log.Fatalf("Upload failed: %v", err)
	}
}
