package voice

import (
	"context"
	"fmt"
	"strings"

	speech "cloud.google.com/go/speech/apiv1"
	"cloud.google.com/go/speech/apiv1/speechpb"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GoogleTranscriber sends LINEAR16 WAV audio to Cloud Speech-to-Text.
type GoogleTranscriber struct {
	client          *speech.Client
	defaultLanguage string
	logger          *zap.Logger
}

// NewGoogleTranscriber uses credentialsFile when set, otherwise application default credentials.
func NewGoogleTranscriber(ctx context.Context, credentialsFile, defaultLanguage string, logger *zap.Logger) (*GoogleTranscriber, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := speech.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speech client: %w", err)
	}
	if defaultLanguage == "" {
		defaultLanguage = "en-AU"
	}
	return &GoogleTranscriber{client: client, defaultLanguage: defaultLanguage, logger: logger}, nil
}

func (t *GoogleTranscriber) Transcribe(ctx context.Context, audio []byte, language string) (string, error) {
	header, err := parseWaveHeader(audio)
	if err != nil {
		return "", err
	}
	if language == "" {
		language = t.defaultLanguage
	}

	req := &speechpb.RecognizeRequest{
		Config: &speechpb.RecognitionConfig{
			Encoding:          speechpb.RecognitionConfig_LINEAR16,
			SampleRateHertz:   int32(header.SampleRate),
			LanguageCode:      language,
			AudioChannelCount: 1,
		},
		Audio: &speechpb.RecognitionAudio{
			AudioSource: &speechpb.RecognitionAudio_Content{Content: audio},
		},
	}
	resp, err := t.client.Recognize(ctx, req)
	if err != nil {
		return "", fmt.Errorf("speech recognition failed: %w", err)
	}

	var transcript strings.Builder
	for _, result := range resp.Results {
		if len(result.Alternatives) > 0 {
			transcript.WriteString(result.Alternatives[0].Transcript + " ")
		}
	}
	text := strings.TrimSpace(transcript.String())
	t.logger.Debug("audio transcribed", zap.Int("bytes", len(audio)), zap.Int("chars", len(text)))
	return text, nil
}

func (t *GoogleTranscriber) Close() error {
	return t.client.Close()
}
