// ABOUTME: Entry point for the Chorus player
// ABOUTME: Renders a voice mix and plays it through the mixer TUI
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Resonate-Protocol/chorus-go/internal/app"
	"github.com/Resonate-Protocol/chorus-go/internal/discovery"
	"github.com/Resonate-Protocol/chorus-go/internal/ui"
	"github.com/Resonate-Protocol/chorus-go/internal/version"
	"github.com/Resonate-Protocol/chorus-go/pkg/playback"
	"github.com/Resonate-Protocol/chorus-go/pkg/render"
)

var (
	voicesFile = flag.String("voices", "", "JSON file of voices (default: built-in four-part choir)")
	preset     = flag.String("preset", "", "Formant singing preset (soprano-airy, alto-soft, tenor-bright, baritone-warm)")
	scale      = flag.String("scale", "major", "Preset scale (major or minor)")
	bpm        = flag.Int("bpm", 100, "Preset tempo in beats per minute")
	vowels     = flag.String("vowels", "AEIOU", "Preset vowel cycle")
	duration   = flag.Float64("duration", render.DefaultDuration, "Mix length in seconds")
	seed       = flag.Int64("seed", 0, "Melody seed (default: derived from voice parameters)")
	name       = flag.String("name", "", "Mix name shown in the player")
	title      = flag.String("title", "", "Mix title (default: the voice name or \"Harmony of N Objects\")")
	autoplay   = flag.Bool("autoplay", true, "Start playback once the mix is loaded")
	restore    = flag.Bool("restore-volume", false, "Keep track volumes when the last solo is released")
	discover   = flag.Bool("discover", false, "List Chorus servers on the network and exit")
	logFile    = flag.String("log-file", "chorus-player.log", "Log file path")
	noTUI      = flag.Bool("no-tui", false, "Disable TUI, use streaming logs instead")
	streamLogs = flag.Bool("stream-logs", false, "Alias for -no-tui")
)

func main() {
	flag.Parse()

	useTUI := !(*noTUI || *streamLogs || *discover)

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer func() { _ = f.Close() }()

	if useTUI {
		log.SetOutput(f)
	} else {
		log.SetOutput(io.MultiWriter(os.Stdout, f))
	}

	if *discover {
		discoverServers(5 * time.Second)
		return
	}

	log.Printf("Starting %s", version.String())

	cfg := app.Config{
		Name:                  *name,
		Title:                 *title,
		VoicesFile:            *voicesFile,
		Preset:                *preset,
		Scale:                 *scale,
		BPM:                   *bpm,
		Vowels:                *vowels,
		Duration:              *duration,
		RestoreVolumeOnUnsolo: *restore,
	}
	if seedSet() {
		cfg.Seed = seed
	}
	if !useTUI {
		cfg.OnStateChange = func(s playback.Snapshot) {
			log.Printf("State: %s at %.2fs/%.2fs", s.State, s.CurrentTime, s.Duration)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	sess, err := app.Open(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("Failed to open mix: %v", err)
	}
	defer func() {
		if err := sess.Close(); err != nil {
			log.Printf("Error closing engine: %v", err)
		}
	}()

	if *autoplay {
		if err := sess.Engine.Play(context.Background(), nil); err != nil {
			log.Printf("Failed to start playback: %v", err)
		}
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if !useTUI {
		sig := <-sigChan
		log.Printf("Received %v signal, stopping", sig)
		return
	}

	prog, err := ui.Run(ui.NewEngineController(sess.Engine, sess.Buffer), sess.Name)
	if err != nil {
		log.Fatalf("Failed to start TUI: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		if _, err := prog.Run(); err != nil {
			log.Printf("TUI error: %v", err)
		}
	}()

	select {
	case <-done:
		log.Printf("Received quit signal from TUI")
	case <-sigChan:
		log.Printf("Shutdown signal received")
		prog.Quit()
		<-done
	}

	log.Printf("Player stopped")
}

// seedSet reports whether -seed was given explicitly
func seedSet() bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			set = true
		}
	})
	return set
}

// discoverServers logs every control server found before the timeout
func discoverServers(timeout time.Duration) {
	disc := discovery.NewManager(discovery.Config{})
	defer disc.Stop()

	if err := disc.Browse(); err != nil {
		log.Fatalf("Failed to browse: %v", err)
	}

	log.Printf("Browsing for %s services for %v...", discovery.ServiceType, timeout)
	deadline := time.After(timeout)
	found := 0
	for {
		select {
		case srv := <-disc.Servers():
			found++
			fmt.Printf("%s\tws://%s:%d%s\n", srv.Name, srv.Host, srv.Port, srv.Path)
		case <-deadline:
			log.Printf("Found %d servers", found)
			return
		}
	}
}
