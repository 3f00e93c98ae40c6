// Package assistant implements the local assistant orchestration: the
// action grammar over model output, bounded conversational memory, action
// execution against the tracker, and the per-turn coordinator.
package assistant

import (
	"regexp"
	"strings"

	"github.com/lticona/strive/internal/domain"
)

// directiveRe matches a candidate directive tag: [ACTION:TYPE:Target].
// The type token is validated separately against the closed enum so that
// look-alike garbage degrades instead of erroring.
var directiveRe = regexp.MustCompile(`\[ACTION:([A-Za-z_]*):([^\]\n]*)\]`)

// ParseAction extracts at most one action from raw model output.
//
// Model text is untrusted: zero candidates means a conversational-only
// reply, a malformed candidate is skipped, and when the model over-generates
// the first syntactically valid candidate wins and the rest are ignored.
// ParseAction never fails; the worst output maps to ActionNone.
//
// The returned text is the input with every directive-shaped tag stripped,
// suitable for display and for the conversation log.
func ParseAction(raw string) (domain.ActionTaken, string) {
	action := domain.NoAction()

	matches := directiveRe.FindAllStringSubmatch(raw, -1)
	for _, m := range matches {
		typ, ok := domain.ParseActionType(strings.ToUpper(strings.TrimSpace(m[1])))
		if !ok {
			continue
		}
		target := strings.TrimSpace(m[2])
		if typ.RequiresTarget() && target == "" {
			continue
		}
		if !typ.RequiresTarget() {
			target = ""
		}
		action = domain.ActionTaken{Type: typ, Target: target}
		break
	}

	return action, stripDirectives(raw)
}

var spaceRe = regexp.MustCompile(`[ \t]{2,}`)

func stripDirectives(raw string) string {
	clean := directiveRe.ReplaceAllString(raw, "")
	clean = spaceRe.ReplaceAllString(clean, " ")
	return strings.TrimSpace(clean)
}
