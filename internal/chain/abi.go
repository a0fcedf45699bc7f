package chain

import (
	_ "embed"

	"github.com/goran-ethernal/TicketIndexor/pkg/config"
	"github.com/goran-ethernal/TicketIndexor/pkg/indexer"
	"github.com/goran-ethernal/TicketIndexor/pkg/rpc"
)

var (
	//go:embed abi/AdminRegistry.json
	AdminRegistryABI []byte

	//go:embed abi/EventRegistry.json
	EventRegistryABI []byte

	//go:embed abi/OfferRegistry.json
	OfferRegistryABI []byte
)

// BundledABI returns the interface definition shipped for a marketplace contract.
func BundledABI(contract string) ([]byte, bool) {
	switch contract {
	case indexer.AdminRegistry:
		return AdminRegistryABI, true
	case indexer.EventRegistry:
		return EventRegistryABI, true
	case indexer.OfferRegistry:
		return OfferRegistryABI, true
	}
	return nil, false
}

// BindMarketplace binds the bundled ABIs of the three marketplace contracts to their
// configured addresses, in indexer.Contracts() order.
func BindMarketplace(client rpc.ChainClient, addrs config.ContractsConfig) ([]*ContractHandle, error) {
	byName := map[string]string{
		indexer.AdminRegistry: addrs.AdminRegistry,
		indexer.EventRegistry: addrs.EventRegistry,
		indexer.OfferRegistry: addrs.OfferRegistry,
	}

	handles := make([]*ContractHandle, 0, len(byName))
	for _, name := range indexer.Contracts() {
		abiJSON, _ := BundledABI(name)
		handle, err := BindContract(client, name, byName[name], abiJSON)
		if err != nil {
			return nil, err
		}
		handles = append(handles, handle)
	}

	return handles, nil
}
