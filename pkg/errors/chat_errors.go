package errors

var (
	// Domain errors: returned by usecases, mapped to transport codes
	ErrNotFound           = NotFound("not found")
	ErrNotAuthorized      = NotAuthorized("not authorized")
	ErrInvalidInput       = InvalidInput("invalid input")
	ErrUserAlreadyExists  = AlreadyExists("user already exists")
	ErrChannelNotFound    = New(CodeChannelNotFound, "channel not found")
	ErrInvalidPassword    = New(CodeInvalidPassword, "invalid password")
	ErrMessageTooLarge    = New(CodeMessageTooLarge, "message too large")
	ErrAttachmentTooLarge = New(CodeAttachmentTooLarge, "attachment too large")
	ErrUnauthenticated    = Unauthenticated("caller identity missing")

	ErrUserNotFound        = NotFound("user not found")
	ErrUserNotRegistered   = NotAuthorized("caller is not a registered user")
	ErrUsernameTaken       = AlreadyExists("username is already taken")
	ErrInvalidUsername     = InvalidInput("username must be 1-50 characters")
	ErrInvalidChannelName  = InvalidInput("channel name must be 1-100 characters")
	ErrNotChannelMember    = NotAuthorized("caller is not a member of the channel")
	ErrNotChannelCreator   = NotAuthorized("only the channel creator can do this")
	ErrCreatorCannotLeave  = NotAuthorized("the channel creator cannot leave it")
	ErrGeneralChannel      = NotAuthorized("the general channel cannot be modified this way")
	ErrPaymentRequired     = NotAuthorized("encrypted channel creation was not authorized")
	ErrEmptyContent        = InvalidInput("message content cannot be empty")
	ErrInvalidMessageType  = InvalidInput("unknown message type")
	ErrChannelNotEncrypted = InvalidInput("channel does not support encrypted messages")
	ErrMessageNotFound     = NotFound("message not found")
	ErrNotMessageAuthor    = NotAuthorized("only the message author can do this")
	ErrShareLimitReached   = InvalidInput("message is shared with too many users")
	ErrInvalidTransportKey = InvalidInput("transport public key must be 32 bytes")
	ErrInvalidKeyTag       = InvalidInput("key tag cannot be empty")
	ErrPasswordTooLong     = InvalidInput("channel password must be at most 72 bytes")
)

func ErrStorage(cause error) error {
	return Wrap(CodeInternal, "storage error", cause)
}

func ErrCrypto(cause error) error {
	return Wrap(CodeInternal, "crypto error", cause)
}
