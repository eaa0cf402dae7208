package ws

const (
	JoinAcknowledged = "join.acknowledged"

	MemberList   = "member.list"
	MemberJoined = "member.joined"
	MemberLeft   = "member.left"

	MessageReceived = "message.received"

	ErrorEvent = "error"
	JoinFailed = "error.join"
)
