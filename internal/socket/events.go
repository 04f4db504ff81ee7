package socket

// Server-pushed events.
const (
	EventPlayerAnswered       = "playerAnswered"
	EventForceNextQuestion    = "forceNextQuestion"
	EventChallengeFinished    = "challengeFinished"
	EventPlayerLeft           = "playerLeft"
	EventMatchTimeout         = "matchTimeout"
	EventSpectatorCount       = "spectatorCount"
	EventOnlineUsersList      = "onlineUsersList"
	EventLiveMatchesList      = "liveMatchesList"
	EventReceiveChallenge     = "receiveChallenge"
	EventMatchStarted         = "matchStarted"
	EventChallengeDeclined    = "challengeDeclined"
	EventMatchError           = "matchError"
	EventPublicMessageReceive = "publicMessageReceived"
	EventPublicMessageDeleted = "publicMessageDeleted"
	EventPublicMessageError   = "publicMessageError"
	EventPublicMessageSent    = "publicMessageSent"
	EventNewNotification      = "newNotification"
)

// Client-emitted events.
const (
	EmitAnswerQuestion      = "answerQuestion"
	EmitNextQuestion        = "nextQuestion"
	EmitFinishChallenge     = "finishChallenge"
	EmitPlayerLeft          = "playerLeft"
	EmitJoinAsSpectator     = "joinAsSpectator"
	EmitGetOnlineUsers      = "getOnlineUsers"
	EmitGetLiveMatches      = "getLiveMatches"
	EmitSendChallenge       = "sendChallenge"
	EmitAcceptChallenge     = "acceptChallenge"
	EmitDeclineChallenge    = "declineChallenge"
	EmitJoinPublicChat      = "joinPublicChat"
	EmitNewPublicMessage    = "newPublicMessage"
	EmitDeletePublicMessage = "deletePublicMessage"
)
