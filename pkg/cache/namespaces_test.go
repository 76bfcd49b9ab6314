package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityKey(t *testing.T) {
	assert.Equal(t, "1", EntityKey(1))
	assert.Equal(t, "9223372036854775807", EntityKey(9223372036854775807))
}

func TestSearchKey_CaseInsensitive(t *testing.T) {
	// The same term in any casing must map to the same entry.
	assert.Equal(t, SearchKey("Ada"), SearchKey("ada"))
	assert.Equal(t, SearchKey("WIDGET"), SearchKey("widget"))
	assert.NotEqual(t, SearchKey("ada"), SearchKey("grace"))
}

func TestSearchKey_Deterministic(t *testing.T) {
	first := SearchKey("some long search term with spaces")
	second := SearchKey("some long search term with spaces")
	assert.Equal(t, first, second)
	assert.Len(t, first, cacheKeyHashLength)
}

func TestStoreKey(t *testing.T) {
	assert.Equal(t, "store:customers:42", storeKey(NamespaceCustomers, "42"))
	assert.Equal(t, "store:orders-by-customer:7", storeKey(NamespaceOrdersByCustomer, "7"))
}

func TestNamespacePattern_DoesNotOverlap(t *testing.T) {
	// The orders pattern must not match orders-by-customer keys.
	assert.Equal(t, "store:orders:*", namespacePattern(NamespaceOrders))
	assert.Equal(t, "store:orders-by-customer:*", namespacePattern(NamespaceOrdersByCustomer))
}

func TestParseNamespace(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Namespace
		ok    bool
	}{
		{name: "customers", input: "customers", want: NamespaceCustomers, ok: true},
		{name: "customer search", input: "customer-search", want: NamespaceCustomerSearch, ok: true},
		{name: "orders by customer", input: "orders-by-customer", want: NamespaceOrdersByCustomer, ok: true},
		{name: "unknown", input: "invoices", ok: false},
		{name: "empty", input: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ns, ok := ParseNamespace(tt.input)
			require.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, ns)
			}
		})
	}
}

func TestDefaultPolicies_CoverEveryNamespace(t *testing.T) {
	policies := defaultPolicies()
	for _, ns := range AllNamespaces() {
		policy, ok := policies[ns]
		require.True(t, ok, "namespace %s has no policy", ns)
		assert.Positive(t, policy.TTL)
	}
}

func TestDefaultPolicies_TTLs(t *testing.T) {
	policies := defaultPolicies()
	assert.Equal(t, time.Hour, policies[NamespaceCustomers].TTL)
	assert.Equal(t, 15*time.Minute, policies[NamespaceCustomerSearch].TTL)
	assert.Equal(t, 30*time.Minute, policies[NamespaceOrdersByCustomer].TTL)
}
