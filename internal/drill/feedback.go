package drill

import (
	"fmt"
	"time"

	"github.com/ayusman/holstercoach/internal/analysis"
)

// Feedback thresholds.
const (
	// StanceRatioMin and StanceRatioMax bound the acceptable ankle-spread
	// to shoulder-width ratio.
	StanceRatioMin = 1.0
	StanceRatioMax = 2.0

	// DrawParTime is the slowest draw that still earns an affirmation.
	DrawParTime = 2500 * time.Millisecond
)

// Coaching messages.
const (
	msgStanceNarrow = "Stance too narrow - widen your feet past shoulder width."
	msgStanceWide   = "Stance too wide - bring your feet in a touch."
	msgStanceGood   = "Solid stance. Hold it."
	msgGripOneHand  = "Use both hands - bring your support hand onto the grip."
	msgGripGood     = "Good two-hand grip."
)

// Feedback maps a metrics record, the active module, and an optional
// completed draw duration to an ordered list of coaching messages.
// Pure and deterministic: messages are appended in the fixed order
// stance, grip, draw, and inapplicable rules contribute nothing.
func Feedback(m analysis.Metrics, module Module, draw *time.Duration) []string {
	var lines []string

	if module.includesStance() && m.StanceRatio != nil {
		switch {
		case *m.StanceRatio < StanceRatioMin:
			lines = append(lines, msgStanceNarrow)
		case *m.StanceRatio > StanceRatioMax:
			lines = append(lines, msgStanceWide)
		default:
			lines = append(lines, msgStanceGood)
		}
	}

	if module.includesGrip() && m.GripTwoHand != nil {
		if *m.GripTwoHand {
			lines = append(lines, msgGripGood)
		} else {
			lines = append(lines, msgGripOneHand)
		}
	}

	if module.includesDraw() && draw != nil {
		secs := draw.Seconds()
		if *draw > DrawParTime {
			lines = append(lines, fmt.Sprintf("Draw time %.2fs - shave it down.", secs))
		} else {
			lines = append(lines, fmt.Sprintf("Draw time %.2fs - nice and quick.", secs))
		}
	}

	return lines
}
