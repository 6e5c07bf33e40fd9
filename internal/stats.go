package internal

import "github.com/JamesPrial/reddit-sentiment-analysis/pkg/types"

// ComputeStats reduces a list of records into summary counts. It is a
// pure function: the result is recomputed in full on every call. An empty
// input yields the zero-valued struct rather than a division by zero.
func ComputeStats(records []*types.CommentRecord) types.CommentStats {
	if len(records) == 0 {
		return types.CommentStats{}
	}

	authors := make(map[string]struct{})
	stats := types.CommentStats{TotalComments: len(records)}
	totalScore := 0

	for _, record := range records {
		if record == nil {
			continue
		}
		// The deleted sentinel is not an author; counting it would let
		// multiple deleted comments inflate the unique-author count.
		if record.Author != types.DeletedSentinel {
			authors[record.Author] = struct{}{}
		}
		if record.IsDeleted {
			stats.DeletedComments++
		}
		if record.IsRemoved {
			stats.RemovedComments++
		}
		totalScore += record.Score
		if record.Depth > stats.MaxDepth {
			stats.MaxDepth = record.Depth
		}
		stats.GildedComments += record.Gilded
	}

	stats.UniqueAuthors = len(authors)
	stats.AverageScore = float64(totalScore) / float64(len(records))
	return stats
}
