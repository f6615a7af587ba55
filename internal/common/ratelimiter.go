package common

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Analysis struct {
	Allowed bool          // If the request is allowed
	Wait    time.Duration // The minimal time to wait before the request is allowed
}

// RateLimiter decides if outbound requests are allowed under a set of
// restrictions. Vital requests queue and wait for their slot; non
// vital requests are simply rejected while the limiter is saturated
// or while vital requests are pending
type RateLimiter struct {
	mu                   sync.Mutex
	restrictions         []Restriction
	history              []time.Time
	duration             time.Duration // Min duration to wait for all restrictions to be lifted
	pendingVitalRequests map[uuid.UUID]struct{}
}

func NewRateLimiter(restrictions []Restriction) *RateLimiter {

	rl := RateLimiter{
		restrictions:         append([]Restriction{}, restrictions...),
		pendingVitalRequests: map[uuid.UUID]struct{}{},
	}
	for _, restriction := range restrictions {
		if restriction.Duration > rl.duration {
			rl.duration = restriction.Duration
		}
	}
	return &rl
}

// Decide if a request is allowed. If the request is not allowed but
// vital, execution will block here until it is allowed
func (rl *RateLimiter) Allowed(vital bool) bool {

	// Give this request a unique identifier
	thisuuid := uuid.New()
	for {
		rl.mu.Lock()
		rl.trim()
		analysis := rl.analyse()

		if analysis.Allowed {
			if !vital && len(rl.pendingVitalRequests) > 0 {
				rl.mu.Unlock()
				log.Warn().Msg("Rejecting non vital request because the vital queue is not empty")
				return false
			}
			delete(rl.pendingVitalRequests, thisuuid)
			rl.history = append(rl.history, time.Now())
			rl.mu.Unlock()
			return true
		}

		if !vital {
			rl.mu.Unlock()
			log.Warn().Msg("Rejecting a non vital request because restrictions do not allow it")
			return false
		}

		// Request is vital and not allowed, so queue it and sleep
		// until the limiting restriction has expired
		rl.pendingVitalRequests[thisuuid] = struct{}{}
		rl.mu.Unlock()
		log.Warn().Msg(fmt.Sprintf("Vital request %s delayed %.1f seconds", thisuuid, analysis.Wait.Seconds()))
		time.Sleep(analysis.Wait)
	}
}

// Trim the current history, leaving only the requests
// that are young enough to be affected by at least one restriction
func (rl *RateLimiter) trim() {
	currentTime := time.Now()
	index := 0
	for i := len(rl.history) - 1; i >= 0; i-- {
		if currentTime.Sub(rl.history[i]) > rl.duration {
			index = i + 1
			break
		}
	}
	rl.history = rl.history[index:]
}

// Merge the analyses of all restrictions: a request is allowed only
// if every restriction allows it, and the wait is the longest one
func (rl *RateLimiter) analyse() Analysis {

	merged := Analysis{Allowed: true}
	for i := range rl.restrictions {
		analysis := rl.restrictions[i].Analyse(rl.history)
		merged.Allowed = merged.Allowed && analysis.Allowed
		if analysis.Wait > merged.Wait {
			merged.Wait = analysis.Wait
		}
	}
	return merged
}
