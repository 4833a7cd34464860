package forwarder

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryFromURL(t *testing.T) {
	params := QueryFromURL("b=2&a=1&b=3&flag&bad=%zz&x=hello+world")

	assert.Equal(t, []QueryParam{
		{Key: "b", Value: "2"},
		{Key: "a", Value: "1"},
		{Key: "b", Value: "3"},
		{Key: "flag", Value: ""},
		{Key: "x", Value: "hello world"},
	}, params)

	assert.Empty(t, QueryFromURL(""))
}

func TestBuildURL(t *testing.T) {
	tests := []struct {
		name   string
		target string
		params []QueryParam
		want   string
	}{
		{"no params", "http://svc/a", nil, "http://svc/a"},
		{"order kept", "http://svc/a", []QueryParam{{"z", "1"}, {"a", "2"}}, "http://svc/a?z=1&a=2"},
		{"blank dropped", "http://svc/a", []QueryParam{{"k", " "}, {"", "v"}, {"ok", "1"}}, "http://svc/a?ok=1"},
		{"all blank", "http://svc/a", []QueryParam{{"k", ""}}, "http://svc/a"},
		{"escaped", "http://svc/a", []QueryParam{{"q", "a&b=c"}}, "http://svc/a?q=a%26b%3Dc"},
		{"existing query", "http://svc/a?x=1", []QueryParam{{"y", "2"}}, "http://svc/a?x=1&y=2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildURL(tt.target, tt.params))
		})
	}
}
