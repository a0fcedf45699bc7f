package chain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/core/types"
)

const subscriptionBuffer = 256

// ErrSubscriptionClosed is reported when the node closes a subscription without an error.
var ErrSubscriptionClosed = errors.New("subscription closed by node")

// LogHandler is invoked once per delivered log, in delivery order.
type LogHandler func(ctx context.Context, log types.Log)

// Subscription streams the logs of one or more events of a contract to a handler.
type Subscription struct {
	Contract string
	Events   []string

	sub  ethereum.Subscription
	err  chan error
	quit chan struct{}
	done chan struct{}
	once sync.Once
}

// Subscribe registers handler for eventName logs emitted by the contract.
// Delivery continues until ctx is done, Unsubscribe is called or the connection fails;
// a connection failure is reported on Err and is not recovered.
func (h *ContractHandle) Subscribe(ctx context.Context, eventName string, handler LogHandler) (*Subscription, error) {
	return h.SubscribeEvents(ctx, []string{eventName}, handler)
}

// SubscribeEvents registers handler for the logs of every named event over a single
// node subscription, so the handler sees them in the order the contract emitted them.
func (h *ContractHandle) SubscribeEvents(ctx context.Context, eventNames []string,
	handler LogHandler) (*Subscription, error) {
	if h.client == nil {
		return nil, errors.New("contract is not bound to a client")
	}
	if len(eventNames) == 0 {
		return nil, fmt.Errorf("no events to subscribe to on %s", h.Name)
	}

	query, err := h.FilterQuery(eventNames...)
	if err != nil {
		return nil, err
	}

	s := &Subscription{
		Contract: h.Name,
		Events:   slices.Clone(eventNames),
		err:      make(chan error, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	logs := make(chan types.Log, subscriptionBuffer)
	sub, err := h.client.SubscribeLogs(ctx, query, logs)
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", s.name(), err)
	}
	s.sub = sub

	go s.loop(ctx, logs, handler)

	return s, nil
}

func (s *Subscription) loop(ctx context.Context, logs <-chan types.Log, handler LogHandler) {
	defer close(s.done)
	defer s.sub.Unsubscribe()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.quit:
			return
		case err, ok := <-s.sub.Err():
			if !ok || err == nil {
				err = ErrSubscriptionClosed
			}
			s.err <- fmt.Errorf("%s subscription: %w", s.name(), err)
			return
		case l := <-logs:
			handler(ctx, l)
		}
	}
}

// Err delivers at most one error, when the subscription fails.
func (s *Subscription) Err() <-chan error {
	return s.err
}

func (s *Subscription) name() string {
	return s.Contract + "." + strings.Join(s.Events, "|")
}

// Unsubscribe stops delivery and waits for the handler loop to exit.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() { close(s.quit) })
	<-s.done
}
