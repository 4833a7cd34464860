package routing

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompiledPattern_Match(t *testing.T) {
	tests := []struct {
		pattern string
		path    string
		want    bool
	}{
		// ** spans segments
		{"/api/**", "/api/a/b/c", true},
		{"/api/**", "/api/a", true},
		{"/api/**", "/api/", true},
		{"/api/**", "/api", true},
		{"/api/**", "/apix/a", false},
		{"/api/**", "/other/api/a", false},
		{"/**", "/anything/at/all", true},
		{"**", "relative/path", true},
		{"/api/**/detail", "/api/detail", true},
		{"/api/**/detail", "/api/a/b/detail", true},
		{"/api/**/detail", "/api/a/b/details", false},
		{"/a/**/b/**/c", "/a/x/b/y/z/c", true},
		{"/a/**/b/**/c", "/a/x/y/c", false},

		// * stays inside one segment
		{"/api/*", "/api/a", true},
		{"/api/*", "/api/", true},
		{"/api/*", "/api/a/b", false},
		{"/api/*/orders", "/api/7/orders", true},
		{"/api/*/orders", "/api/7/8/orders", false},
		{"/files/*.json", "/files/report.json", true},
		{"/files/*.json", "/files/report.xml", false},
		{"/files/*.json", "/files/dir/report.json", false},
		{"/v*/users", "/v2/users", true},

		// {name} is one non-empty segment
		{"/users/{id}", "/users/42", true},
		{"/users/{id}", "/users/", false},
		{"/users/{id}", "/users/42/orders", false},
		{"/users/{id}/orders/{orderId}", "/users/1/orders/99", true},
		{"/users/user-{id}", "/users/user-7", true},
		{"/users/user-{id}", "/users/user-", false},

		// anchoring and case
		{"/users", "/users", true},
		{"/users", "/users/", false},
		{"/users", "/api/users", false},
		{"/Users", "/users", false},

		// ** inside a segment acts as *
		{"/a**b", "/axxb", true},
		{"/a**b", "/ax/xb", false},
		{"/a/**.pdf", "/a/c.pdf", true},
		{"/a/**.pdf", "/a/.pdf", true},
		{"/a/**.pdf", "/a/b/c.pdf", false},
		{"/files/**.pdf", "/files/report.txt", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.path, func(t *testing.T) {
			cp, err := Compile(tt.pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cp.Match(tt.path))
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		wantErr error
	}{
		{"empty", "", ErrEmptyPattern},
		{"unclosed brace", "/users/{id", ErrUnbalancedBrace},
		{"stray close brace", "/users/id}", ErrUnbalancedBrace},
		{"nested brace", "/users/{a{b}", ErrUnbalancedBrace},
		{"empty variable", "/users/{}", ErrEmptyVariable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.pattern)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCompiledPattern_Variables(t *testing.T) {
	cp := MustCompile("/users/{id}/orders/{orderId}")
	assert.Equal(t, []string{"id", "orderId"}, cp.Variables())
	assert.Equal(t, "/users/{id}/orders/{orderId}", cp.Source())

	vars := cp.Variables()
	vars[0] = "mutated"
	assert.Equal(t, "id", cp.Variables()[0])
}

func TestMustCompile_Panics(t *testing.T) {
	assert.Panics(t, func() { MustCompile("/{") })
}

func TestPatternCompiler(t *testing.T) {
	t.Run("caches by source text", func(t *testing.T) {
		c := NewPatternCompiler()

		first, err := c.Compile("/users/**")
		require.NoError(t, err)
		second, err := c.Compile("/users/**")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("failed compilations are not cached", func(t *testing.T) {
		c := NewPatternCompiler()

		_, err := c.Compile("/bad/{")
		assert.Error(t, err)
		assert.Equal(t, 0, c.Len())
	})

	t.Run("concurrent compiles share one matcher", func(t *testing.T) {
		c := NewPatternCompiler()
		results := make([]*CompiledPattern, 64)

		var wg sync.WaitGroup
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				results[i], _ = c.Compile("/orders/{id}/**")
			}(i)
		}
		wg.Wait()

		for _, cp := range results {
			assert.Same(t, results[0], cp)
		}
		assert.Equal(t, 1, c.Len())
	})
}

func TestCompile_Deterministic(t *testing.T) {
	a := MustCompile("/api/*/items/**")
	b := MustCompile("/api/*/items/**")

	for _, path := range []string{"/api/x/items", "/api/x/items/1/2", "/api/x/y/items", "/api/items"} {
		assert.Equal(t, a.Match(path), b.Match(path), path)
	}
}
