package domain

type CtxKey string

const (
	KeyAccountID    CtxKey = "AccountID"
	KeyAccountEmail CtxKey = "Email"
	KeyActorType    CtxKey = "ActorType"
)
