package phonebook

import (
	"context"
	"time"

	"github.com/golang/glog"
	"github.com/graphql-go/graphql"
)

// LogRequests logs every executed operation at verbosity 2 and every
// operation that returned errors at verbosity 1.
func LogRequests(next HandlerFunc) HandlerFunc {
	return func(ctx context.Context, req *Request) *graphql.Result {
		start := time.Now()
		res := next(ctx, req)

		name := req.OperationName
		if name == "" {
			name = "<anonymous>"
		}
		if res.HasErrors() {
			glog.V(1).Infof("graphql %s finished in %s with %d errors, first: %s",
				name, time.Since(start), len(res.Errors), res.Errors[0].Message)
		} else {
			glog.V(2).Infof("graphql %s finished in %s with %d variables", name, time.Since(start), len(ExtractVariables(ctx)))
		}
		return res
	}
}
