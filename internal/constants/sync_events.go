package constants

// Rank evaluation queue settings
const (
	RankEvaluationStream        = "rank:evaluation"
	RankEvaluationConsumerGroup = "rank-evaluators"
)

// Rank evaluation sources, recorded on every queued message
const (
	RankEvalSourceEdit      = "PIREP_EDIT"
	RankEvalSourceApprove   = "PIREP_APPROVE"
	RankEvalSourceDeny      = "PIREP_DENY"
	RankEvalSourceReconcile = "NIGHTLY_RECONCILE"
)
