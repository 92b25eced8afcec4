package handler

type ContextKey string

var (
	RoleCtxKey    ContextKey = "role"
	SubCtxKey     ContextKey = "sub"
	MyInfoCtx     ContextKey = "myInfo"
	PersonInfoCtx ContextKey = "personInfo"
	RosterPlanCtx ContextKey = "rosterPlan"
)
