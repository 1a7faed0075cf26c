package pipeline

import (
	"context"
	"os"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/geochicas/mapper8m/internal/model"
	"github.com/geochicas/mapper8m/internal/parse"
)

// ScorePage scores a single target, either a URL or a local HTML file, and
// returns the score with its full signal breakdown plus the extracted
// record when the page clears the threshold.
func (p *Pipeline) ScorePage(ctx context.Context, target string) (model.ScoreResult, *model.EventRecord, error) {
	core, err := p.buildCore()
	if err != nil {
		return model.ScoreResult{}, nil, err
	}

	var html, pageURL string
	if strings.HasPrefix(target, "http://") || strings.HasPrefix(target, "https://") {
		pageURL = target
		html = p.fetcher.Page(ctx, target, false)
		if html == "" {
			return model.ScoreResult{}, nil, eris.Errorf("pipeline: could not fetch %s", target)
		}
	} else {
		data, err := os.ReadFile(target)
		if err != nil {
			return model.ScoreResult{}, nil, eris.Wrap(err, "pipeline: read page file")
		}
		html = string(data)
		pageURL = "file://" + target
	}

	doc, err := parse.Parse(pageURL, html)
	if err != nil {
		return model.ScoreResult{}, nil, err
	}

	score := core.scorer.Score(doc)
	var rec *model.EventRecord
	if score.Accepted {
		rec = core.extractor.Extract(doc, score)
	}
	return score, rec, nil
}
