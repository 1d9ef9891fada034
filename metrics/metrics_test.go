package metrics_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"go.appointy.com/phonebook"
	"go.appointy.com/phonebook/metrics"
)

func TestMiddleware(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)

	ok := m.Middleware(func(context.Context, *phonebook.Request) *graphql.Result {
		return &graphql.Result{Data: map[string]interface{}{"personCount": 0}}
	})
	failed := m.Middleware(func(context.Context, *phonebook.Request) *graphql.Result {
		return &graphql.Result{Errors: []gqlerrors.FormattedError{
			{Message: "not authenticated", Extensions: map[string]interface{}{"code": "UNAUTHENTICATED"}},
			{Message: "syntax error"},
		}}
	})

	ok(context.Background(), &phonebook.Request{})
	ok(context.Background(), &phonebook.Request{})
	failed(context.Background(), &phonebook.Request{})

	require.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("ok")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("error")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("UNAUTHENTICATED")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("UNKNOWN")))
	require.Equal(t, 2, testutil.CollectAndCount(m.RequestDuration))
}

func TestNewRejectsDoubleRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := metrics.New(reg)
	require.NoError(t, err)
	_, err = metrics.New(reg)
	require.Error(t, err)
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	m, err := metrics.New(reg)
	require.NoError(t, err)
	m.RequestsTotal.WithLabelValues("ok").Inc()

	rr := httptest.NewRecorder()
	metrics.Handler(reg).ServeHTTP(rr, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rr.Code)
	require.Contains(t, rr.Body.String(), `phonebook_graphql_requests_total{status="ok"} 1`)
}
