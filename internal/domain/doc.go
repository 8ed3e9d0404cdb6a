// Package domain contains the core domain model for railbook.
//
// The domain is transport- and persistence-agnostic: it does not depend on JSON files,
// net/http, or the terminal. Infra/adapters map into/from these types.
package domain
