package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/goran-ethernal/TicketIndexor/internal/chain"
	"github.com/goran-ethernal/TicketIndexor/internal/common"
	"github.com/goran-ethernal/TicketIndexor/internal/contentstore"
	"github.com/goran-ethernal/TicketIndexor/internal/indexer"
	"github.com/goran-ethernal/TicketIndexor/internal/logger"
	"github.com/goran-ethernal/TicketIndexor/internal/rpc"
	"github.com/goran-ethernal/TicketIndexor/internal/store"
	pkgcontentstore "github.com/goran-ethernal/TicketIndexor/pkg/contentstore"
	pkgindexer "github.com/goran-ethernal/TicketIndexor/pkg/indexer"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or upgrade the projection database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		_, _, closeDB, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer closeDB()

		fmt.Printf("Projection database %s is up to date\n", cfg.DB.Path)
		return nil
	},
}

var checkpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Show or reset the indexer checkpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			cp, ok, err := st.Checkpoints().Get(ctx, indexer.CheckpointName)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Println("No checkpoint stored, indexing starts at chain.start_block")
				return nil
			}

			fmt.Printf("block=%d hash=%s updated_at=%d\n", cp.BlockNumber, cp.BlockHash.Hex(), cp.UpdatedAt)
			return nil
		})
	},
}

var checkpointResetCmd = &cobra.Command{
	Use:   "reset <block>",
	Short: "Move the checkpoint to block so the next run replays everything after it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		block, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("%w: invalid block %q", common.ErrConfiguration, args[0])
		}

		return withStore(cmd.Context(), func(ctx context.Context, st *store.Store) error {
			if err := st.Checkpoints().Reset(ctx, indexer.CheckpointName, block); err != nil {
				return err
			}

			fmt.Printf("Checkpoint reset to block %d\n", block)
			return nil
		})
	},
}

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "List the indexed contract events and their topic hashes",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CONTRACT\tEVENT\tTOPIC")

		for _, name := range pkgindexer.Contracts() {
			abiJSON, _ := chain.BundledABI(name)
			// the address is irrelevant for topic computation
			handle, err := chain.BindContract(nil, name, "0x0000000000000000000000000000000000000001", abiJSON)
			if err != nil {
				return err
			}

			for _, event := range pkgindexer.ContractEvents[name] {
				id, err := handle.EventID(event)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", name, event, id.Hex())
			}
		}

		return w.Flush()
	},
}

var schemaCmd = &cobra.Command{
	Use:       "schema [event|offer]",
	Short:     "Print the JSON schema of the metadata documents referenced by on-chain events",
	Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"event", "offer"},
	RunE: func(cmd *cobra.Command, args []string) error {
		kinds := []string{"event", "offer"}
		if len(args) == 1 {
			kinds = args
		}

		schemas := make(map[string]*jsonschema.Schema, len(kinds))
		for _, kind := range kinds {
			schemas[kind] = metadataSchema(kind)
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if len(args) == 1 {
			return enc.Encode(schemas[args[0]])
		}
		return enc.Encode(schemas)
	},
}

func metadataSchema(kind string) *jsonschema.Schema {
	r := &jsonschema.Reflector{DoNotReference: true}
	if kind == "event" {
		return r.Reflect(&pkgindexer.EventMetadata{})
	}
	return r.Reflect(&pkgindexer.OfferMetadata{})
}

var metadataCmd = &cobra.Command{
	Use:   "metadata",
	Short: "Work with metadata documents in the content store",
}

var metadataGetCmd = &cobra.Command{
	Use:   "get <ref>",
	Short: "Fetch a metadata document by content id or ipfs:// reference",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := contentClient()
		if err != nil {
			return err
		}

		var doc json.RawMessage
		if err := client.Get(cmd.Context(), args[0], &doc); err != nil {
			return err
		}

		_, err = fmt.Println(string(doc))
		return err
	},
}

var metadataPutCmd = &cobra.Command{
	Use:       "put <event|offer> <file>",
	Short:     "Validate and upload a metadata document, printing its ipfs:// reference",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"event", "offer"},
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[1])
		if err != nil {
			return err
		}

		var doc any
		switch args[0] {
		case "event":
			var m pkgindexer.EventMetadata
			if err := json.Unmarshal(raw, &m); err != nil {
				return fmt.Errorf("invalid event metadata: %w", err)
			}
			if !store.Category(strings.ToUpper(strings.TrimSpace(m.Category))).Valid() {
				return fmt.Errorf("invalid event metadata: unknown category %q", m.Category)
			}
			doc = m
		case "offer":
			var m pkgindexer.OfferMetadata
			if err := json.Unmarshal(raw, &m); err != nil {
				return fmt.Errorf("invalid offer metadata: %w", err)
			}
			if m.Quantity < 0 {
				return fmt.Errorf("invalid offer metadata: negative quantity %d", m.Quantity)
			}
			doc = m
		default:
			return fmt.Errorf("unknown metadata kind %q, expected event or offer", args[0])
		}

		client, err := contentClient()
		if err != nil {
			return err
		}

		cid, err := client.Put(cmd.Context(), doc)
		if err != nil {
			return err
		}

		fmt.Println("ipfs://" + cid)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify [address...]",
	Short: "Compare projection counts and admin flags with the on-chain registries",
	Long: `verify reads eventCount and offerCount from the registries and compares them with the
number of events and offers in the projection. For every address given, the AdminRegistry
isAdmin view is compared with the projected admin flag. Differences are expected while the
indexer is catching up.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, a := range args {
			if !common.IsHexAddress(a) {
				return fmt.Errorf("%w: invalid address %q", common.ErrConfiguration, a)
			}
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		client, err := rpc.NewClient(ctx, cfg.Chain.RPCURL, cfg.Chain.Retry,
			logger.NewComponentLoggerFromConfig(common.ComponentChainClient, cfg.Logging))
		if err != nil {
			return fmt.Errorf("failed to create RPC client: %w", err)
		}
		defer client.Close()

		contracts, err := chain.BindMarketplace(client, cfg.Chain.Contracts)
		if err != nil {
			return err
		}

		return withStore(ctx, func(ctx context.Context, st *store.Store) error {
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "CHECK\tCHAIN\tPROJECTION")

			for _, c := range contracts {
				var (
					method    string
					projected int64
				)
				switch c.Name {
				case pkgindexer.EventRegistry:
					method = "eventCount"
					projected, err = st.Events().Count(ctx, nil)
				case pkgindexer.OfferRegistry:
					method = "offerCount"
					projected, err = st.Offers().Count(ctx, nil)
				default:
					continue
				}
				if err != nil {
					return err
				}

				out, err := c.Call(ctx, method)
				if err != nil {
					return err
				}
				fmt.Fprintf(w, "%s.%s\t%v\t%d\n", c.Name, method, out[0], projected)
			}

			for _, a := range args {
				addr := ethcommon.HexToAddress(a)
				key := common.AddressKey(addr)

				// contracts follow indexer.Contracts() order, AdminRegistry first
				out, err := contracts[0].Call(ctx, "isAdmin", addr)
				if err != nil {
					return err
				}

				projected := false
				acc, err := st.Accounts().FindOne(ctx, store.Filter{"address": key})
				switch {
				case err == nil:
					projected = acc.Admin
				case !errors.Is(err, store.ErrNotFound):
					return err
				}
				fmt.Fprintf(w, "isAdmin(%s)\t%v\t%v\n", key, out[0], projected)
			}

			return w.Flush()
		})
	},
}

func init() {
	checkpointCmd.AddCommand(checkpointResetCmd)
	metadataCmd.AddCommand(metadataGetCmd, metadataPutCmd)
}

func withStore(ctx context.Context, fn func(ctx context.Context, st *store.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	st, _, closeDB, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer closeDB()

	return fn(ctx, st)
}

func contentClient() (pkgcontentstore.Store, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	return contentstore.NewClient(cfg.ContentStore,
		logger.NewComponentLoggerFromConfig(common.ComponentContentStore, cfg.Logging))
}
