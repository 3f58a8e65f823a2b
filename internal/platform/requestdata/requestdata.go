package requestdata

import "context"

type requestDataKey struct{}

// RequestData carries the caller identity resolved from the session token.
// UserID is the OAuth subject, falling back to the email when the provider
// supplies none; ownership checks compare against it and never against a
// client-supplied value.
type RequestData struct {
	UserID    string
	UserName  string
	UserEmail string
}

func WithRequestData(ctx context.Context, rd *RequestData) context.Context {
	return context.WithValue(ctx, requestDataKey{}, rd)
}

func GetRequestData(ctx context.Context) *RequestData {
	if rd, ok := ctx.Value(requestDataKey{}).(*RequestData); ok {
		return rd
	}
	return nil
}
