package errors

type Code string

const (
	CodeUnknown            Code = "UNKNOWN"
	CodeInvalidInput       Code = "INVALID_INPUT"
	CodeNotFound           Code = "NOT_FOUND"
	CodeUserAlreadyExists  Code = "USER_ALREADY_EXISTS"
	CodeNotAuthorized      Code = "NOT_AUTHORIZED"
	CodeUnauthenticated    Code = "UNAUTHENTICATED"
	CodeChannelNotFound    Code = "CHANNEL_NOT_FOUND"
	CodeInvalidPassword    Code = "INVALID_PASSWORD"
	CodeMessageTooLarge    Code = "MESSAGE_TOO_LARGE"
	CodeAttachmentTooLarge Code = "ATTACHMENT_TOO_LARGE"
	CodeInternal           Code = "INTERNAL"
)
