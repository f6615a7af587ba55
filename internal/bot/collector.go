package bot

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

var (
	// ErrTimeout means the respondent did not answer within the
	// allotted window; the whole prompt sequence is discarded
	ErrTimeout = errors.New("collection timed out")
	// ErrCollectorBusy means the same respondent already has a
	// collection running in the same channel
	ErrCollectorBusy = errors.New("a collection is already running for this user in this channel")
)

// Reply is one inbound message consumed by a running collection
type Reply struct {
	MessageId string
	Content   string
}

type waiterKey struct {
	channelid string
	userid    string
}

// Collector hands inbound messages over to suspended prompt
// sequences. A collection is keyed by (channel, respondent), so two
// different users collecting in the same channel never see each
// other's answers. Starting a second collection for the same key is
// rejected up front
type Collector struct {
	mu      sync.Mutex
	waiters map[waiterKey]chan Reply
}

func NewCollector() *Collector {
	return &Collector{waiters: map[waiterKey]chan Reply{}}
}

// Collection is one running prompt sequence. It stays registered
// with the collector from Begin until End, so answers arriving
// between two prompts are not lost
type Collection struct {
	collector *Collector
	key       waiterKey
	replies   chan Reply
	timeout   time.Duration
}

// Begin registers a collection for the respondent in the channel
func (collector *Collector) Begin(channelid string, userid string, timeout time.Duration) (*Collection, error) {

	key := waiterKey{channelid, userid}

	collector.mu.Lock()
	defer collector.mu.Unlock()

	if _, ok := collector.waiters[key]; ok {
		return nil, ErrCollectorBusy
	}
	replies := make(chan Reply, 1)
	collector.waiters[key] = replies
	return &Collection{collector, key, replies, timeout}, nil
}

// Next suspends until the next message from the respondent in the
// channel arrives, or until the timeout expires
func (collection *Collection) Next() (Reply, error) {

	select {
	case reply := <-collection.replies:
		return reply, nil
	case <-time.After(collection.timeout):
		log.Debug().Msg(fmt.Sprintf("Collection timed out for user %s in channel %s", collection.key.userid, collection.key.channelid))
		return Reply{}, ErrTimeout
	}
}

// End deregisters the collection. Safe to call more than once
func (collection *Collection) End() {
	collection.collector.mu.Lock()
	delete(collection.collector.waiters, collection.key)
	collection.collector.mu.Unlock()
}

// Offer routes an inbound message to a running collection, and
// reports if it was consumed. Messages nobody waits for are left to
// the normal command dispatch
func (collector *Collector) Offer(channelid string, userid string, messageid string, content string) bool {

	collector.mu.Lock()
	defer collector.mu.Unlock()

	replies, ok := collector.waiters[waiterKey{channelid, userid}]
	if !ok {
		return false
	}
	select {
	case replies <- Reply{messageid, content}:
		return true
	default:
		// The collection already holds an answer it has not picked
		// up yet; backpressure instead of buffering unboundedly
		return false
	}
}

// collectAnswers runs the full prompt sequence: post a prompt, wait
// for the matching answer, repeat. The send function returns the id
// of the posted prompt so the caller can clean the channel up
// afterwards. On timeout the partial answers are discarded; the
// accumulated message ids are returned either way, for cleanup
func collectAnswers(collector *Collector, channelid string, userid string, prompts []string, timeout time.Duration, send func(string) (string, error)) ([]string, []string, error) {

	collection, err := collector.Begin(channelid, userid, timeout)
	if err != nil {
		return nil, nil, err
	}
	defer collection.End()

	answers := make([]string, 0, len(prompts))
	messageids := make([]string, 0, 2*len(prompts))

	for _, prompt := range prompts {
		promptid, err := send(prompt)
		if err != nil {
			return nil, messageids, fmt.Errorf("could not post prompt: %w", err)
		}
		messageids = append(messageids, promptid)

		reply, err := collection.Next()
		if err != nil {
			return nil, messageids, err
		}
		messageids = append(messageids, reply.MessageId)
		answers = append(answers, reply.Content)
	}

	return answers, messageids, nil
}
