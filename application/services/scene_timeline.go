package services

import (
	"sort"

	"github.com/Sukhman-Singh-Narula/STServer/domain"
)

// Narration audio is CBR MP3 at 128 kbps from both providers, so byte length
// over bitrate gives the real clip duration without decoding frames.
const mp3BitrateKbps = 128

// EstimateAudioDurationMs derives the scene duration from the audio bytes.
// Placeholder clips carry no meaningful length, so those fall back to the
// character-count estimate.
func EstimateAudioDurationMs(audio domain.SceneAudio, text string) int64 {
	if audio.Placeholder || len(audio.Data) == 0 {
		return EstimateTextDurationMs(text)
	}
	return int64(len(audio.Data)) * 8 / mp3BitrateKbps
}

// EstimateTextDurationMs approximates narration length from the text alone:
// 5 characters per word at 150 words per minute.
func EstimateTextDurationMs(text string) int64 {
	words := float64(len(text)) / 5.0
	return int64(words / 150.0 * 60000.0)
}

// AssignStartTimes orders the records by scene number, sets each start time
// to the running sum of previous durations and returns the total story
// duration in milliseconds.
func AssignStartTimes(records []domain.SceneRecord) int64 {
	sort.Slice(records, func(i, j int) bool {
		return records[i].SceneNumber < records[j].SceneNumber
	})

	var current int64
	for i := range records {
		records[i].StartTimeMs = current
		current += records[i].DurationMs
	}
	return current
}
