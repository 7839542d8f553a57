// ABOUTME: Entry point for the Chorus control server
// ABOUTME: Renders or loads a mix, plays it locally and exposes WebSocket control
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
	"github.com/Resonate-Protocol/chorus-go/internal/server"
	"github.com/Resonate-Protocol/chorus-go/pkg/render"
)

var (
	port       = flag.Int("port", 8927, "WebSocket server port")
	name       = flag.String("name", "", "Server friendly name (default: hostname-chorus-server)")
	logFile    = flag.String("log-file", "chorus-server.log", "Log file path")
	debug      = flag.Bool("debug", false, "Enable debug logging")
	noMDNS     = flag.Bool("no-mdns", false, "Disable mDNS advertisement")
	audioFile  = flag.String("audio", "", "Audio file to control (MP3, FLAC, WAV). If not specified, renders the voices")
	voicesFile = flag.String("voices", "", "JSON file of voices (default: built-in four-part choir)")
	preset     = flag.String("preset", "", "Formant singing preset instead of voices")
	bpm        = flag.Int("bpm", 100, "Preset tempo in beats per minute")
	duration   = flag.Float64("duration", render.DefaultDuration, "Mix length in seconds")
	autoplay   = flag.Bool("autoplay", false, "Start playback immediately")
)

func main() {
	flag.Parse()

	f, err := os.OpenFile(*logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		log.Fatalf("error opening log file: %v", err)
	}
	defer f.Close()

	log.SetOutput(io.MultiWriter(os.Stdout, f))

	serverName := *name
	if serverName == "" {
		hostname, err := os.Hostname()
		if err != nil {
			hostname = "unknown"
		}
		serverName = fmt.Sprintf("%s-chorus-server", hostname)
	}

	log.Printf("Starting Chorus Server: %s on port %d", serverName, *port)
	if *debug {
		log.Printf("Debug logging enabled")
	}
	log.Printf("Logging to: %s", *logFile)
	log.Printf("Press Ctrl-C to stop")

	cfg := app.Config{
		Name:       serverName,
		VoicesFile: *voicesFile,
		Preset:     *preset,
		BPM:        *bpm,
		Duration:   *duration,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	var sess *app.Session
	if *audioFile != "" {
		sess, err = app.OpenFile(ctx, cfg, *audioFile)
	} else {
		sess, err = app.Open(ctx, cfg)
	}
	cancel()
	if err != nil {
		log.Fatalf("Failed to open mix: %v", err)
	}
	defer sess.Close()

	if *autoplay {
		if err := sess.Engine.Play(context.Background(), nil); err != nil {
			log.Printf("Failed to start playback: %v", err)
		}
	}

	srv := server.New(server.Config{
		Port:       *port,
		Name:       serverName,
		EnableMDNS: !*noMDNS,
		Debug:      *debug,
	}, sess.Engine, server.Session{
		Buffer: sess.Buffer,
		WAV:    sess.WAV,
		Tracks: sess.Result.Tracks,
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Printf("Received %v signal, shutting down gracefully...", sig)
		srv.Stop()
	}()

	if err := srv.Start(); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Printf("Server stopped")
}
