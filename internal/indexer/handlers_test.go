package indexer

import (
	"context"
	"math/big"
	"testing"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/TicketIndexor/internal/chain/chaintest"
	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/store"
	pkgindexer "github.com/goran-ethernal/TicketIndexor/pkg/indexer"
	"github.com/stretchr/testify/require"
)

func TestHandlers_EventCreated(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)
	h, st, content := newTestHandlers(t, map[string]string{
		"cid123": `{"name":"Expo","description":"d","venue":"v","category":"EDUCATION","imageUrl":"http://i"}`,
	})

	creator := "0x0000000000000000000000000000000000000ABC"
	e := decodeAt[*EventCreated](t, c, c.eventCreated(7, creator, 1_999_999_999, "cid123"), 100, 0)

	outcome, err := h.EventCreated(ctx, e)
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)
	require.Equal(t, 1, content.count("cid123"))

	event, err := st.Events().FindOne(ctx, store.Filter{"id": int64(7)})
	require.NoError(t, err)
	require.Equal(t, "0x0000000000000000000000000000000000000abc", event.Creator)
	require.Equal(t, int64(1_999_999_999), event.Time)
	require.Equal(t, "Expo", event.Name)
	require.Equal(t, "d", event.Description)
	require.Equal(t, "v", event.Venue)
	require.Equal(t, store.CategoryEducation, event.Category)
	require.Equal(t, "http://i", event.ImageURL)
	require.Equal(t, testGateway+"/ipfs/cid123", event.MetadataURI)
	require.Equal(t, store.EventUpcoming, event.Status)
	require.Equal(t, uint64(100), event.CreatedBlock)
	require.Equal(t, e.Log.TxHash.Hex(), event.CreatedTx)

	// redelivery leaves a single record
	outcome, err = h.EventCreated(ctx, e)
	require.NoError(t, err)
	require.Equal(t, OutcomeNoop, outcome)

	n, err := st.Events().Count(ctx, store.Filter{"id": int64(7)})
	require.NoError(t, err)
	require.Equal(t, int64(1), n)
}

func TestHandlers_EventCreatedMetadataErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		uri  string
		docs map[string]string
	}{
		{name: "gateway unreachable", uri: "ipfs://missing"},
		{name: "malformed json", uri: "ipfs://broken", docs: map[string]string{"ipfs://broken": `{"name":`}},
		{
			name: "unknown category",
			uri:  "ipfs://cinema",
			docs: map[string]string{"ipfs://cinema": `{"name":"Film","category":"CINEMA"}`},
		},
		{name: "empty reference", uri: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctx := context.Background()
			c := bindTestContracts(t, nil)
			h, st, _ := newTestHandlers(t, tt.docs)

			e := decodeAt[*EventCreated](t, c, c.eventCreated(7, alice, 1, tt.uri), 100, 0)

			_, err := h.EventCreated(ctx, e)
			require.ErrorIs(t, err, common.ErrMetadataFetch)

			_, err = st.Events().FindOne(ctx, store.Filter{"id": int64(7)})
			require.ErrorIs(t, err, store.ErrNotFound)
		})
	}
}

func TestHandlers_EventCancelled(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)
	h, st, _ := newTestHandlers(t, defaultDocs())

	t.Run("unknown event is reported missing", func(t *testing.T) {
		e := decodeAt[*EventCancelled](t, c, c.eventCancelled(999), 100, 0)

		outcome, err := h.EventCancelled(ctx, e)
		require.NoError(t, err)
		require.Equal(t, OutcomeMissing, outcome)

		n, err := st.Events().Count(ctx, nil)
		require.NoError(t, err)
		require.Zero(t, n)
	})

	t.Run("cancel is applied once", func(t *testing.T) {
		_, err := h.EventCreated(ctx, decodeAt[*EventCreated](t, c, c.eventCreated(7, alice, 1, "ipfs://cidEvent"), 100, 0))
		require.NoError(t, err)

		e := decodeAt[*EventCancelled](t, c, c.eventCancelled(7), 101, 0)

		outcome, err := h.EventCancelled(ctx, e)
		require.NoError(t, err)
		require.Equal(t, OutcomeApplied, outcome)

		outcome, err = h.EventCancelled(ctx, e)
		require.NoError(t, err)
		require.Equal(t, OutcomeNoop, outcome)

		event, err := st.Events().FindOne(ctx, store.Filter{"id": int64(7)})
		require.NoError(t, err)
		require.Equal(t, store.EventCancelled, event.Status)
	})

	t.Run("completed event stays completed", func(t *testing.T) {
		_, err := h.EventCreated(ctx, decodeAt[*EventCreated](t, c, c.eventCreated(8, alice, 1, "ipfs://cidEvent"), 100, 1))
		require.NoError(t, err)

		_, err = st.Events().UpdateOne(ctx, store.Filter{"id": int64(8)},
			store.Update{Set: map[string]any{"status": string(store.EventCompleted)}}, false)
		require.NoError(t, err)

		outcome, err := h.EventCancelled(ctx, decodeAt[*EventCancelled](t, c, c.eventCancelled(8), 102, 0))
		require.NoError(t, err)
		require.Equal(t, OutcomeAnomaly, outcome)

		event, err := st.Events().FindOne(ctx, store.Filter{"id": int64(8)})
		require.NoError(t, err)
		require.Equal(t, store.EventCompleted, event.Status)
	})
}

func TestHandlers_Admin(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h, st, _ := newTestHandlers(t, nil)

	// removing an unknown admin creates nothing
	outcome, err := h.AdminRemoved(ctx, &AdminRemoved{Admin: bob})
	require.NoError(t, err)
	require.Equal(t, OutcomeNoop, outcome)

	n, err := st.Accounts().Count(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, n)

	// mixed case on grant, lower case on revoke
	outcome, err = h.AdminAdded(ctx, &AdminAdded{Admin: aliceChecksummed})
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)

	outcome, err = h.AdminAdded(ctx, &AdminAdded{Admin: alice})
	require.NoError(t, err)
	require.Equal(t, OutcomeNoop, outcome)

	account, err := st.Accounts().FindOne(ctx, store.Filter{"address": alice})
	require.NoError(t, err)
	require.True(t, account.Admin)

	outcome, err = h.AdminRemoved(ctx, &AdminRemoved{Admin: alice})
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)

	accounts, err := st.Accounts().FindMany(ctx, nil, store.Page{})
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	require.Equal(t, alice, accounts[0].Address)
	require.False(t, accounts[0].Admin)
}

func TestHandlers_SellOfferAccepted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)
	h, st, _ := newTestHandlers(t, defaultDocs())

	created := decodeAt[*OfferToSellCreated](t, c,
		c.offerToSell(42, 7, aliceChecksummed, 5_000_000, 2_500_000, "ipfs://cidOffer"), 100, 0)

	outcome, err := h.OfferToSellCreated(ctx, created)
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)

	offer, err := st.Offers().FindOne(ctx, store.Filter{"id": int64(42)})
	require.NoError(t, err)
	require.Equal(t, store.OfferToSell, offer.Type)
	require.Equal(t, store.OfferActive, offer.Status)
	require.Equal(t, int64(7), offer.EventID)
	require.Equal(t, alice, *offer.Seller)
	require.Nil(t, offer.Buyer)
	require.Equal(t, int64(2), offer.Quantity)
	require.Equal(t, []string{"A1", "A2"}, offer.SeatNumbers)
	require.Equal(t, "VIP", offer.SeatType)
	require.True(t, offer.PhysicalTicketRequired)
	require.Equal(t, testGateway+"/ipfs/cidOffer", offer.MetadataURI)

	accepted := decodeAt[*OfferAccepted](t, c, c.offerAccepted(42, bob), 101, 0)

	outcome, err = h.OfferAccepted(ctx, accepted)
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)

	// redelivery of both is harmless
	outcome, err = h.OfferToSellCreated(ctx, created)
	require.NoError(t, err)
	require.Equal(t, OutcomeNoop, outcome)

	outcome, err = h.OfferAccepted(ctx, accepted)
	require.NoError(t, err)
	require.Equal(t, OutcomeNoop, outcome)

	offer, err = st.Offers().FindOne(ctx, store.Filter{"id": int64(42)})
	require.NoError(t, err)
	require.Equal(t, store.OfferAccepted, offer.Status)
	require.Equal(t, bob, *offer.Buyer)
	require.Equal(t, alice, *offer.Seller)
	require.Equal(t, int64(5_000_000), offer.Amount)
	require.Equal(t, int64(2_500_000), offer.Collateral)
}

func TestHandlers_BuyOfferAccepted(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)
	h, st, _ := newTestHandlers(t, defaultDocs())

	created := decodeAt[*OfferToBuyCreated](t, c, chaintest.MustLog(c.offers, pkgindexer.EventOfferToBuyCreated,
		int64(43), int64(7), ethcommon.HexToAddress(bob), big.NewInt(4_000_000), big.NewInt(0), "ipfs://cidOffer"),
		100, 0)

	outcome, err := h.OfferToBuyCreated(ctx, created)
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)

	// the accepting party of a buy request is the seller
	outcome, err = h.OfferAccepted(ctx, decodeAt[*OfferAccepted](t, c, c.offerAccepted(43, carol), 101, 0))
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)

	offer, err := st.Offers().FindOne(ctx, store.Filter{"id": int64(43)})
	require.NoError(t, err)
	require.Equal(t, store.OfferToBuy, offer.Type)
	require.Equal(t, store.OfferAccepted, offer.Status)
	require.Equal(t, bob, *offer.Buyer)
	require.Equal(t, carol, *offer.Seller)
	require.Equal(t, int64(4_000_000), offer.Amount)
}

func TestHandlers_OfferTerminalStatusSticks(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)
	h, st, _ := newTestHandlers(t, defaultDocs())

	_, err := h.OfferToSellCreated(ctx,
		decodeAt[*OfferToSellCreated](t, c, c.offerToSell(42, 7, alice, 1, 1, "ipfs://cidOffer"), 100, 0))
	require.NoError(t, err)

	steps := []struct {
		name    string
		apply   func() (Outcome, error)
		outcome Outcome
		status  store.OfferStatus
	}{
		{
			name: "accept",
			apply: func() (Outcome, error) {
				return h.OfferAccepted(ctx, &OfferAccepted{ID: 42, Buyer: bob})
			},
			outcome: OutcomeApplied,
			status:  store.OfferAccepted,
		},
		{
			name: "dispute",
			apply: func() (Outcome, error) {
				return h.OfferDisputed(ctx, &OfferDisputed{ID: 42, By: bob})
			},
			outcome: OutcomeApplied,
			status:  store.OfferDisputed,
		},
		{
			name: "settle fills nothing new",
			apply: func() (Outcome, error) {
				return h.OfferSettled(ctx, &OfferSettled{ID: 42, Seller: alice, Buyer: bob})
			},
			outcome: OutcomeApplied,
			status:  store.OfferSettled,
		},
		{
			name: "cancel after settle is ignored",
			apply: func() (Outcome, error) {
				return h.OfferCancelled(ctx, &OfferCancelled{ID: 42})
			},
			outcome: OutcomeAnomaly,
			status:  store.OfferSettled,
		},
		{
			name: "late accept is ignored",
			apply: func() (Outcome, error) {
				return h.OfferAccepted(ctx, &OfferAccepted{ID: 42, Buyer: carol})
			},
			outcome: OutcomeAnomaly,
			status:  store.OfferSettled,
		},
		{
			name: "settle again is a noop",
			apply: func() (Outcome, error) {
				return h.OfferSettled(ctx, &OfferSettled{ID: 42, Seller: alice, Buyer: bob})
			},
			outcome: OutcomeNoop,
			status:  store.OfferSettled,
		},
	}

	for _, step := range steps {
		outcome, err := step.apply()
		require.NoError(t, err, step.name)
		require.Equal(t, step.outcome, outcome, step.name)

		offer, err := st.Offers().FindOne(ctx, store.Filter{"id": int64(42)})
		require.NoError(t, err)
		require.Equal(t, step.status, offer.Status, step.name)
		require.Equal(t, bob, *offer.Buyer, step.name)
	}
}

func TestHandlers_OfferSettledFillsMissingParty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)
	h, st, _ := newTestHandlers(t, defaultDocs())

	_, err := h.OfferToSellCreated(ctx,
		decodeAt[*OfferToSellCreated](t, c, c.offerToSell(42, 7, alice, 1, 1, "ipfs://cidOffer"), 100, 0))
	require.NoError(t, err)

	// accept was missed, settle carries both parties
	outcome, err := h.OfferSettled(ctx, &OfferSettled{ID: 42, Seller: alice, Buyer: bob})
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)

	offer, err := st.Offers().FindOne(ctx, store.Filter{"id": int64(42)})
	require.NoError(t, err)
	require.Equal(t, store.OfferSettled, offer.Status)
	require.Equal(t, bob, *offer.Buyer)
}

func TestHandlers_OfferUpdatesWithoutOffer(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h, st, _ := newTestHandlers(t, nil)

	for name, apply := range map[string]func() (Outcome, error){
		"accepted":  func() (Outcome, error) { return h.OfferAccepted(ctx, &OfferAccepted{ID: 1, Buyer: bob}) },
		"cancelled": func() (Outcome, error) { return h.OfferCancelled(ctx, &OfferCancelled{ID: 1}) },
		"disputed":  func() (Outcome, error) { return h.OfferDisputed(ctx, &OfferDisputed{ID: 1, By: bob}) },
		"settled":   func() (Outcome, error) { return h.OfferSettled(ctx, &OfferSettled{ID: 1, Seller: alice, Buyer: bob}) },
	} {
		outcome, err := apply()
		require.NoError(t, err, name)
		require.Equal(t, OutcomeMissing, outcome, name)
	}

	n, err := st.Offers().Count(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestHandlers_MetadataFailureIsolation(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)
	h, st, content := newTestHandlers(t, defaultDocs())

	content.fail("ipfs://cidBuy", errGatewayDown)

	buy := decodeAt[*OfferToBuyCreated](t, c, chaintest.MustLog(c.offers, pkgindexer.EventOfferToBuyCreated,
		int64(43), int64(7), ethcommon.HexToAddress(bob), big.NewInt(1), big.NewInt(1), "ipfs://cidBuy"), 100, 0)

	_, err := h.OfferToBuyCreated(ctx, buy)
	require.ErrorIs(t, err, common.ErrMetadataFetch)
	require.ErrorIs(t, err, errGatewayDown)

	_, err = st.Offers().FindOne(ctx, store.Filter{"id": int64(43)})
	require.ErrorIs(t, err, store.ErrNotFound)

	// the next, unrelated event still goes through
	outcome, err := h.OfferToSellCreated(ctx,
		decodeAt[*OfferToSellCreated](t, c, c.offerToSell(44, 7, alice, 1, 1, "ipfs://cidOffer"), 100, 1))
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, outcome)

	_, err = st.Offers().FindOne(ctx, store.Filter{"id": int64(44)})
	require.NoError(t, err)
}

func TestHandlers_NegativeQuantityRejected(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	c := bindTestContracts(t, nil)
	h, st, _ := newTestHandlers(t, map[string]string{"ipfs://bad": `{"quantity":-1}`})

	_, err := h.OfferToSellCreated(ctx,
		decodeAt[*OfferToSellCreated](t, c, c.offerToSell(42, 7, alice, 1, 1, "ipfs://bad"), 100, 0))
	require.ErrorIs(t, err, common.ErrMetadataFetch)

	n, err := st.Offers().Count(ctx, nil)
	require.NoError(t, err)
	require.Zero(t, n)
}
