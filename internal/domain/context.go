package domain

type ctxKey string

// OperatorCtxKey carries the authenticated Operator through a request
// context once the session middleware has validated the cookie.
const OperatorCtxKey ctxKey = "gestionale-operator"
