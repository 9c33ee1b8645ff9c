package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/smart-sa/smorti/internal/domain/constants"
	"github.com/smart-sa/smorti/internal/domain/entity"
	"github.com/smart-sa/smorti/internal/domain/repository"
	"github.com/smart-sa/smorti/pkg/logger"
)

// toneRewrite asks the model to rephrase a deterministic reply in Smorti's
// voice without changing facts, links or prices. Any failure falls back to
// the deterministic text verbatim. A throwaway variety tag plus the last bot
// reply in the prompt keep consecutive turns from sounding identical.
func (u *smortiUseCase) toneRewrite(ctx context.Context, s *entity.Session, deterministic string) string {
	if deterministic == "" || !u.rewriteTone {
		return deterministic
	}

	varietyTag := fmt.Sprintf("VAR%04d", u.randInt(10000))
	last := strings.TrimSpace(s.LastBotReply)

	var prompt string
	if s.Lang == "en" {
		prompt = "Rewrite this reply to sound warm and human (1-3 lines).\n" +
			"Rules:\n" +
			"- Keep same facts/links/prices. Do NOT add new links or claims.\n" +
			"- Avoid repeating the previous bot wording.\n" +
			"- Do NOT include: " + varietyTag + "\n\n" +
			"Previous bot reply (avoid repeating):\n" + last + "\n\n" +
			"Reply to rewrite:\n" + deterministic
	} else {
		prompt = "أعد صياغة الرد بشكل ودود وطبيعي (1-3 أسطر).\n" +
			"القواعد:\n" +
			"- نفس الحقائق والروابط والأسعار فقط. لا تضف روابط/ادعاءات جديدة.\n" +
			"- لا تكرر نفس صياغة الرد السابق.\n" +
			"- لا تكتب: " + varietyTag + "\n\n" +
			"الرد السابق (تجنب تكراره):\n" + last + "\n\n" +
			"الرد المراد إعادة صياغته:\n" + deterministic
	}

	grounding := buildGrounding(factsBlock(s.Lang, nil))
	history := tailTurns(s.History, constants.RewriteHistory)

	call := func(temp float32, extra string) string {
		p := prompt
		if extra != "" {
			p += "\n\n" + extra
		}
		out, err := u.ai.Complete(ctx, repository.CompletionRequest{
			System:      grounding,
			History:     history,
			Prompt:      p,
			Temperature: temp,
			MaxTokens:   constants.RewriteMaxTokens,
		})
		if err != nil {
			logger.Debug().Err(err).Msg("tone rewrite failed")
			return ""
		}
		out = strings.ReplaceAll(out, varietyTag, "")
		return cleanOutput(out)
	}

	out := call(constants.RewriteTemp, "")
	if out != "" && last != "" && strings.EqualFold(strings.TrimSpace(out), last) {
		// Same wording again: one hotter retry with an explicit nudge.
		if out2 := call(constants.RewriteRetryTemp, "مهم: غير الصياغة تماماً وخله طبيعي."); out2 != "" {
			return out2
		}
		return out
	}
	if out == "" {
		return deterministic
	}
	return out
}

func tailTurns(history []entity.Turn, n int) []entity.Turn {
	if len(history) <= n {
		return history
	}
	return history[len(history)-n:]
}
