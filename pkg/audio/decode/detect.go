// ABOUTME: Container sniffing and source loading
// ABOUTME: Picks a decoder from magic bytes and fetches bytes from data URLs, HTTP or files
package decode

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/Resonate-Protocol/chorus-go/pkg/audio"
)

// maxFetchSize bounds how much audio Load will read from a remote source
const maxFetchSize = 256 << 20

// Detect returns the codec name for the container in data, or "" if unknown
func Detect(data []byte) string {
	switch {
	case len(data) >= 12 && string(data[0:4]) == "RIFF" && string(data[8:12]) == "WAVE":
		return "wav"
	case len(data) >= 4 && string(data[0:4]) == "fLaC":
		return "flac"
	case len(data) >= 3 && string(data[0:3]) == "ID3":
		return "mp3"
	case len(data) >= 2 && data[0] == 0xFF && data[1]&0xE0 == 0xE0:
		return "mp3"
	}
	return ""
}

// ForCodec returns a decoder for a container codec name
func ForCodec(codec string) (Decoder, error) {
	switch codec {
	case "wav":
		return NewWAV(), nil
	case "flac":
		return NewFLAC(), nil
	case "mp3":
		return NewMP3(), nil
	default:
		return nil, fmt.Errorf("%w: unsupported codec %q", audio.ErrDecodeFailure, codec)
	}
}

// Decode sniffs the container and decodes the whole file
func Decode(data []byte) (*audio.Buffer, error) {
	codec := Detect(data)
	if codec == "" {
		return nil, fmt.Errorf("%w: unrecognized audio container", audio.ErrDecodeFailure)
	}

	decoder, err := ForCodec(codec)
	if err != nil {
		return nil, err
	}
	defer decoder.Close()

	return decoder.Decode(data)
}

// Fetch reads encoded bytes from a data URL, an http(s) URL or a file path
func Fetch(ctx context.Context, src string) ([]byte, error) {
	switch {
	case strings.HasPrefix(src, "data:"):
		return parseDataURL(src)
	case strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://"):
		return fetchHTTP(ctx, src)
	default:
		data, err := os.ReadFile(src)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src, err)
		}
		return data, nil
	}
}

// Load fetches and decodes src
func Load(ctx context.Context, src string) (*audio.Buffer, error) {
	data, err := Fetch(ctx, src)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}

func parseDataURL(src string) ([]byte, error) {
	meta, payload, ok := strings.Cut(strings.TrimPrefix(src, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URL", audio.ErrDecodeFailure)
	}

	if strings.HasSuffix(meta, ";base64") {
		data, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 payload: %v", audio.ErrDecodeFailure, err)
		}
		return data, nil
	}

	decoded, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid data URL payload: %v", audio.ErrDecodeFailure, err)
	}
	return []byte(decoded), nil
}

func fetchHTTP(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch %s: status %d", src, resp.StatusCode)
	}

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(resp.Body, maxFetchSize)); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", src, err)
	}
	return buf.Bytes(), nil
}
