// Package phonebook serves a graphql-go schema over HTTP.
package phonebook

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/golang/glog"
	"github.com/graphql-go/graphql"
	"github.com/pkg/errors"
	"go.appointy.com/phonebook/gqlerr"
)

// Request is the decoded body of a GraphQL POST.
type Request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

// HandlerFunc executes a decoded request.
type HandlerFunc func(ctx context.Context, req *Request) *graphql.Result

// MiddlewareFunc wraps a HandlerFunc. Middlewares run in the order they are
// passed to WithMiddlewares.
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

// ContextFunc derives the execution context from the incoming request. It
// runs before any resolver; an error aborts the request.
type ContextFunc func(r *http.Request) (context.Context, error)

// HandlerOption configures HTTPHandler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	Middlewares []MiddlewareFunc
	Context     ContextFunc
}

// WithMiddlewares appends middlewares to the execution chain.
func WithMiddlewares(m ...MiddlewareFunc) HandlerOption {
	return func(o *handlerOptions) {
		o.Middlewares = append(o.Middlewares, m...)
	}
}

// WithContext sets the hook building the per request context.
func WithContext(f ContextFunc) HandlerOption {
	return func(o *handlerOptions) {
		o.Context = f
	}
}

// HTTPHandler implements the handler required for executing the graphql queries and mutations
func HTTPHandler(schema *graphql.Schema, opts ...HandlerOption) http.Handler {
	h := &httpHandler{schema: schema}

	o := handlerOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	h.context = o.Context

	prev := h.execute
	for i := range o.Middlewares {
		prev = o.Middlewares[len(o.Middlewares)-1-i](prev)
	}
	h.exec = prev

	return h
}

type httpHandler struct {
	schema  *graphql.Schema
	context ContextFunc

	exec HandlerFunc
}

func writeResponse(w http.ResponseWriter, result *graphql.Result) {
	responseJSON, err := json.Marshal(result)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	if w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	_, _ = w.Write(responseJSON)
}

func writeError(w http.ResponseWriter, err error) {
	writeResponse(w, &graphql.Result{Errors: gqlerr.FromError(err)})
}

func (h *httpHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if p := recover(); p != nil {
			glog.Errorf("panic while serving graphql request: %v\n%s", p, debug.Stack())
			writeError(w, gqlerr.InternalError())
		}
	}()

	if r.Method != http.MethodPost {
		writeError(w, errors.New("request must be a POST"))
		return
	}

	if r.Body == nil || r.Body == http.NoBody {
		writeError(w, errors.New("request must include a query"))
		return
	}

	var params Request
	if err := json.NewDecoder(r.Body).Decode(&params); err != nil {
		writeError(w, errors.Wrap(err, "decoding request body"))
		return
	}
	if params.Query == "" {
		writeError(w, errors.New("request must include a query"))
		return
	}

	ctx := r.Context()
	if h.context != nil {
		c, err := h.context(r)
		if err != nil {
			glog.Errorf("building request context: %v", err)
			writeError(w, gqlerr.InternalError())
			return
		}
		ctx = c
	}
	ctx = addVariables(ctx, params.Variables)

	writeResponse(w, h.exec(ctx, &params))
}

func (h *httpHandler) execute(ctx context.Context, req *Request) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         *h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        ctx,
	})
}

type graphqlVariableKeyType int

const graphqlVariableKey graphqlVariableKeyType = 0

// ExtractVariables is used to returns the variables received as part of the graphql request.
// This is intended to be used from within the middlewares.
func ExtractVariables(ctx context.Context) map[string]interface{} {
	if v := ctx.Value(graphqlVariableKey); v != nil {
		return v.(map[string]interface{})
	}

	return nil
}

func addVariables(ctx context.Context, v map[string]interface{}) context.Context {
	return context.WithValue(ctx, graphqlVariableKey, v)
}

const playgroundHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8" />
    <title>%s</title>
    <style>
        body { height: 100%%; margin: 0; overflow: hidden; }
        #graphiql { height: 100vh; }
    </style>
    <link rel="stylesheet" href="https://unpkg.com/graphiql@1.4.0/graphiql.min.css" />
    <script src="https://unpkg.com/react@16.14.0/umd/react.production.min.js"></script>
    <script src="https://unpkg.com/react-dom@16.14.0/umd/react-dom.production.min.js"></script>
    <script src="https://unpkg.com/graphiql@1.4.0/graphiql.min.js"></script>
</head>
<body>
    <div id="graphiql">Loading...</div>
    <script>
      var token = window.localStorage.getItem('phonebook-token');
      function graphQLFetcher(graphQLParams) {
        var headers = {
          Accept: 'application/json',
          'Content-Type': 'application/json',
        };
        if (token) {
          headers.Authorization = 'bearer ' + token;
        }
        return fetch('%s', {
          method: 'post',
          headers: headers,
          body: JSON.stringify(graphQLParams),
          credentials: 'omit',
        }).then(function (response) {
          return response.json().catch(function () {
            return response.text();
          });
        });
      }

      ReactDOM.render(
        React.createElement(GraphiQL, { fetcher: graphQLFetcher }),
        document.getElementById('graphiql'),
      );
    </script>
</body>
</html>`

// PlaygroundHandler serves a GraphiQL page posting to graphqlEndpoint. A
// token saved under the "phonebook-token" key of the browser's local storage
// is sent as the bearer credential.
//
//	r.Handle("/graphql", phonebook.HTTPHandler(schema))
//	r.Handle("/", phonebook.PlaygroundHandler("Phonebook", "/graphql"))
func PlaygroundHandler(title, graphqlEndpoint string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if r.Method == http.MethodHead {
			return
		}
		_, _ = fmt.Fprintf(w, playgroundHTML, title, graphqlEndpoint)
	})
}
