package deepgram

import (
	"fmt"
	"slices"

	"github.com/yaseralie/OEE-VTuber-n8n-Node-RED/core/audio"
)

type encodingInfo struct {
	SampleRate int
	Format     encodingFormat
}

type encodingFormat string

func (e encodingFormat) Name() string { return string(e) }

const (
	encodingLinear16 encodingFormat = "linear16"
	encodingALaw     encodingFormat = "alaw"
	encodingMulaw    encodingFormat = "mulaw"
)

var supportedSampleRates = []int{8000, 16000, 24000, 32000, 48000}

func convertEncoding(encoding audio.EncodingInfo) (*encodingInfo, error) {
	if !slices.Contains(supportedSampleRates, encoding.SampleRate) {
		return nil, fmt.Errorf("unsupported sample rate %d", encoding.SampleRate)
	}

	deepgramEncoding := encodingInfo{SampleRate: encoding.SampleRate}
	switch encoding.Format {
	case audio.EncodingLinear16:
		deepgramEncoding.Format = encodingLinear16
	case audio.EncodingALaw:
		deepgramEncoding.Format = encodingALaw
	case audio.EncodingMulaw:
		deepgramEncoding.Format = encodingMulaw
	default:
		return nil, fmt.Errorf("unsupported encoding %q", encoding.Format.Name())
	}

	// Companded formats are only defined for telephony rates.
	if deepgramEncoding.Format != encodingLinear16 && deepgramEncoding.SampleRate != 8000 {
		return nil, fmt.Errorf("unsupported sample rate %d for %s encoding",
			deepgramEncoding.SampleRate, deepgramEncoding.Format.Name())
	}

	return &deepgramEncoding, nil
}
