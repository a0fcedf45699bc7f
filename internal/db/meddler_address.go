package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/russross/meddler"
)

func init() {
	meddler.Register("address", AddressMeddler{})
}

// AddressMeddler stores addresses as lower-cased hex strings.
// It accepts string, *string, common.Address and *common.Address fields, so every
// address column is normalized at the storage boundary regardless of the model type.
type AddressMeddler struct{}

func (a AddressMeddler) PreRead(fieldAddr any) (scanTarget any, err error) {
	return new(sql.NullString), nil
}

func (a AddressMeddler) PostRead(fieldAddr, scanTarget any) error {
	ns, ok := scanTarget.(*sql.NullString)
	if !ok {
		return fmt.Errorf("expected *sql.NullString, got %T", scanTarget)
	}

	switch ptr := fieldAddr.(type) {
	case *string:
		*ptr = ns.String
	case **string:
		if !ns.Valid {
			*ptr = nil
			return nil
		}
		s := ns.String
		*ptr = &s
	case *common.Address:
		*ptr = common.HexToAddress(ns.String)
	case **common.Address:
		if !ns.Valid {
			*ptr = nil
			return nil
		}
		addr := common.HexToAddress(ns.String)
		*ptr = &addr
	default:
		return fmt.Errorf("unsupported address field type %T", fieldAddr)
	}

	return nil
}

func (a AddressMeddler) PreWrite(field any) (saveValue any, err error) {
	switch v := field.(type) {
	case string:
		return normalize(v)
	case *string:
		if v == nil {
			return nil, nil
		}
		return normalize(*v)
	case common.Address:
		return strings.ToLower(v.Hex()), nil
	case *common.Address:
		if v == nil {
			return nil, nil
		}
		return strings.ToLower(v.Hex()), nil
	}

	return nil, fmt.Errorf("unsupported address field type %T", field)
}

func normalize(s string) (string, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if !common.IsHexAddress(s) {
		return "", fmt.Errorf("invalid address %q", s)
	}
	return s, nil
}
