package advisor

import (
	"context"
	"fmt"
	"strings"

	"github.com/KNICEX/option-sentinel/internal/service/llm"
	"github.com/KNICEX/option-sentinel/internal/service/strategy"
)

// SignalAdvisor asks an LLM for a short risk commentary on an accepted
// signal. The commentary is appended to notifications only; persistence
// never depends on it.
type SignalAdvisor struct {
	llmSvc llm.Service
}

func NewSignalAdvisor(llmSvc llm.Service) *SignalAdvisor {
	return &SignalAdvisor{
		llmSvc: llmSvc,
	}
}

func (a *SignalAdvisor) Review(ctx context.Context, sig strategy.Signal) (string, error) {
	prompt := fmt.Sprintf(
		"An option-selling signal was generated: asset %s, strategy %q, expiration %s, "+
			"net premium %.4f, legs %+v. In one or two sentences, point out the main risk "+
			"of holding this position to expiration. Reply with plain text only.",
		sig.Asset, sig.Strategy, sig.Expiration, sig.Premium, sig.LegPremiums())

	answer, err := a.llmSvc.AskOnce(ctx, llm.Question{Content: prompt})
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(answer.Content), nil
}
