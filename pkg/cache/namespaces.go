package cache

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
)

// Cache key constants for consistent key generation
const (
	cacheKeyPrefix     = "store"
	cacheKeySeparator  = ":"
	cacheKeyHashLength = 12 // Balance between uniqueness and key length
)

// Namespace is a logical partition of the cache store grouping related keys.
type Namespace string

// Namespaces used throughout the application.
const (
	// Single-entity caches, keyed by id. Low volatility, long TTL.
	NamespaceCustomers Namespace = "customers"
	NamespaceOrders    Namespace = "orders"
	NamespaceProducts  Namespace = "products"

	// Search-result caches, keyed by hashed search term. The key space is
	// unbounded and membership can change from any write, so these are only
	// ever invalidated wholesale and carry a short TTL as defense-in-depth.
	NamespaceCustomerSearch Namespace = "customer-search"
	NamespaceProductSearch  Namespace = "product-search"

	// Relationship-list cache: all orders belonging to one customer, keyed
	// by the customer id. Medium TTL.
	NamespaceOrdersByCustomer Namespace = "orders-by-customer"
)

// Policy describes how entries in one namespace are cached.
type Policy struct {
	TTL time.Duration
}

// defaultTTL bounds entries in any namespace without a registered policy.
// No key may ever be written without an expiry.
const defaultTTL = 30 * time.Minute

// defaultPolicies maps each namespace to its TTL. Entity caches change less
// frequently and cache longer; search results are more dynamic and cache
// shorter; relationship queries sit in between.
func defaultPolicies() map[Namespace]Policy {
	return map[Namespace]Policy{
		NamespaceCustomers:        {TTL: time.Hour},
		NamespaceOrders:           {TTL: time.Hour},
		NamespaceProducts:         {TTL: time.Hour},
		NamespaceCustomerSearch:   {TTL: 15 * time.Minute},
		NamespaceProductSearch:    {TTL: 15 * time.Minute},
		NamespaceOrdersByCustomer: {TTL: 30 * time.Minute},
	}
}

// AllNamespaces returns every registered namespace.
func AllNamespaces() []Namespace {
	return []Namespace{
		NamespaceCustomers,
		NamespaceOrders,
		NamespaceProducts,
		NamespaceCustomerSearch,
		NamespaceProductSearch,
		NamespaceOrdersByCustomer,
	}
}

// ParseNamespace resolves a namespace by name (used by the admin surface).
func ParseNamespace(name string) (Namespace, bool) {
	for _, ns := range AllNamespaces() {
		if string(ns) == name {
			return ns, true
		}
	}
	return "", false
}

// EntityKey derives the cache key for an identity-keyed entry.
func EntityKey(id int64) string {
	return strconv.FormatInt(id, 10)
}

// SearchKey derives the cache key for a search term. Matching is
// case-insensitive, so the term is lowercased before hashing; xxhash keeps
// keys short and uniform regardless of term length.
func SearchKey(term string) string {
	hash := xxhash.Sum64String(strings.ToLower(term))
	return fmt.Sprintf("%016x", hash)[:cacheKeyHashLength]
}

// storeKey builds the full store key: store:{namespace}:{key}
func storeKey(ns Namespace, key string) string {
	return cacheKeyPrefix + cacheKeySeparator + string(ns) + cacheKeySeparator + key
}

// namespacePattern builds the SCAN pattern matching every key in a namespace.
// The trailing separator keeps "orders" from matching "orders-by-customer".
func namespacePattern(ns Namespace) string {
	return cacheKeyPrefix + cacheKeySeparator + string(ns) + cacheKeySeparator + "*"
}
