package indexer

import (
	"context"
	"encoding/json"
	"errors"
	"math/big"
	"sync"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/goran-ethernal/TicketIndexor/internal/chain"
	"github.com/goran-ethernal/TicketIndexor/internal/chain/chaintest"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/store"
	"github.com/goran-ethernal/TicketIndexor/pkg/contentstore/mocks"
	pkgindexer "github.com/goran-ethernal/TicketIndexor/pkg/indexer"
	"github.com/goran-ethernal/TicketIndexor/pkg/rpc"
	"github.com/goran-ethernal/TicketIndexor/tests/helpers"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	testGateway = "https://gateway.test"

	adminRegistryAddr = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	eventRegistryAddr = "0xe7f1725E7734CE288F8367e1Bb143E90bb3F0512"
	offerRegistryAddr = "0x9fE46736679d2D9a65F0992F2272dE9f3c7fa6e0"

	// checksummed on purpose, the projection stores lower case
	aliceChecksummed = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	alice            = "0x70997970c51812dc3a010c7d01b50e0d17dc79c8"
	bob              = "0x3c44cdddb6a900fa2b585dd299e03d12fa4293bc"
	carol            = "0x90f79bf6eb2c4f870365e785982e1f101e93b906"
)

var errGatewayDown = errors.New("502 bad gateway")

type testContracts struct {
	admin  *chain.ContractHandle
	events *chain.ContractHandle
	offers *chain.ContractHandle
}

func bindTestContracts(t *testing.T, client rpc.ChainClient) testContracts {
	t.Helper()

	bind := func(name, address string) *chain.ContractHandle {
		abiJSON, ok := chain.BundledABI(name)
		require.True(t, ok)
		h, err := chain.BindContract(client, name, address, abiJSON)
		require.NoError(t, err)
		return h
	}

	return testContracts{
		admin:  bind(pkgindexer.AdminRegistry, adminRegistryAddr),
		events: bind(pkgindexer.EventRegistry, eventRegistryAddr),
		offers: bind(pkgindexer.OfferRegistry, offerRegistryAddr),
	}
}

func (c testContracts) all() []*chain.ContractHandle {
	return []*chain.ContractHandle{c.admin, c.events, c.offers}
}

// Log builders, positioned with chaintest.At by the caller.

func (c testContracts) adminAdded(admin string) types.Log {
	return chaintest.MustLog(c.admin, pkgindexer.EventAdminAdded, ethcommon.HexToAddress(admin))
}

func (c testContracts) adminRemoved(admin string) types.Log {
	return chaintest.MustLog(c.admin, pkgindexer.EventAdminRemoved, ethcommon.HexToAddress(admin))
}

func (c testContracts) eventCreated(id int64, creator string, at int64, uri string) types.Log {
	return chaintest.MustLog(c.events, pkgindexer.EventEventCreated,
		id, ethcommon.HexToAddress(creator), big.NewInt(at), uri)
}

func (c testContracts) eventCancelled(id int64) types.Log {
	return chaintest.MustLog(c.events, pkgindexer.EventEventCancelled, id)
}

func (c testContracts) offerToSell(id, eventID int64, seller string, ask, collateral int64, uri string) types.Log {
	return chaintest.MustLog(c.offers, pkgindexer.EventOfferToSellCreated,
		id, eventID, ethcommon.HexToAddress(seller), big.NewInt(ask), big.NewInt(collateral), uri)
}

func (c testContracts) offerAccepted(id int64, buyer string) types.Log {
	return chaintest.MustLog(c.offers, pkgindexer.EventOfferAccepted, id, ethcommon.HexToAddress(buyer))
}

func (c testContracts) offerCancelled(id int64) types.Log {
	return chaintest.MustLog(c.offers, pkgindexer.EventOfferCancelled, id)
}

// contentDocs serves JSON documents from memory through the content store mock.
type contentDocs struct {
	mu    sync.Mutex
	docs  map[string]string
	fails map[string]error
	calls map[string]int
}

func newContent(t *testing.T, docs map[string]string) (*mocks.Store, *contentDocs) {
	t.Helper()

	c := &contentDocs{docs: docs, fails: make(map[string]error), calls: make(map[string]int)}
	content := mocks.NewStore(t)
	content.EXPECT().Get(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, ref string, out any) error {
			c.mu.Lock()
			defer c.mu.Unlock()

			c.calls[ref]++
			if err := c.fails[ref]; err != nil {
				return err
			}
			doc, ok := c.docs[ref]
			if !ok {
				return errors.New("404 not found")
			}
			return json.Unmarshal([]byte(doc), out)
		}).
		Maybe()

	return content, c
}

func (c *contentDocs) fail(ref string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fails[ref] = err
}

func (c *contentDocs) heal(ref string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.fails, ref)
}

func (c *contentDocs) count(ref string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[ref]
}

const (
	eventDoc = `{"name":"Finals","description":"Season finals","venue":"Arena",` +
		`"category":"sports","imageUrl":"https://img.test/finals.png"}`
	offerDoc = `{"quantity":2,"seatNumbers":["A1","A2"],"seatType":"VIP",` +
		`"isPhysicalTicketNeededToAttend":true}`
)

func defaultDocs() map[string]string {
	return map[string]string{
		"ipfs://cidEvent": eventDoc,
		"ipfs://cidOffer": offerDoc,
	}
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	st, err := store.New(helpers.NewTestDB(t), nil, logger.NewNopLogger())
	require.NoError(t, err)

	return st
}

func newTestHandlers(t *testing.T, docs map[string]string) (*ProjectionHandlers, *store.Store, *contentDocs) {
	t.Helper()

	st := newTestStore(t)
	content, c := newContent(t, docs)

	return NewProjectionHandlers(st, content, testGateway, logger.NewNopLogger()), st, c
}

// decodeAt decodes a built log positioned at block/index.
func decodeAt[T Event](t *testing.T, c testContracts, l types.Log, block uint64, index uint) T {
	t.Helper()

	ev, err := NewDecoder(c.all()...).Decode(chaintest.At(l, block, index))
	require.NoError(t, err)

	typed, ok := ev.(T)
	require.True(t, ok, "decoded %T", ev)

	return typed
}
