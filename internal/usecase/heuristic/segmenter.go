package heuristic

import (
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/GustavoCremonez/backend/internal/domain/entities"
)

// speakerLabelRe matches "Name:" or "First Last:" at the start of a line
var speakerLabelRe = regexp.MustCompile(`(?m)^[ \t]*(\p{Lu}\p{Ll}+(?:[ \t]+\p{Lu}\p{Ll}+)*)[ \t]*:`)

// Segmenter splits a transcript into speaker turns
type Segmenter struct {
	logger *zap.Logger
}

// NewSegmenter creates a segmenter
func NewSegmenter(logger *zap.Logger) *Segmenter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Segmenter{logger: logger}
}

// Segment returns the turns of transcript in order of appearance.
// A transcript without any label becomes a single turn by UnknownSpeaker.
func (s *Segmenter) Segment(transcript string) []entities.SpeakerTurn {
	matches := speakerLabelRe.FindAllStringSubmatchIndex(transcript, -1)
	if len(matches) == 0 {
		return []entities.SpeakerTurn{{
			RawSpeakerLabel: entities.UnknownSpeaker,
			Utterance:       strings.TrimSpace(transcript),
		}}
	}

	if preamble := strings.TrimSpace(transcript[:matches[0][0]]); preamble != "" {
		s.logger.Debug("heuristic.segment.preamble_dropped",
			zap.Int("length", len(preamble)),
		)
	}

	turns := make([]entities.SpeakerTurn, 0, len(matches))
	for i, m := range matches {
		end := len(transcript)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		turns = append(turns, entities.SpeakerTurn{
			RawSpeakerLabel: transcript[m[2]:m[3]],
			Utterance:       strings.TrimSpace(transcript[m[1]:end]),
		})
	}
	return turns
}
