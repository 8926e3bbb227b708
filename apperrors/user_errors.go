package apperrors

var (
	ErrSelfChallenge       = Validation("you can't challenge yourself: both emails are the same")
	ErrEmailRequired       = Validation("email is required")
	ErrNotAParticipant     = Validation("participant is not part of this challenge")
	ErrChallengeNotFound   = NotFound("challenge not found")
	ErrInviteNotFound      = NotFound("invite token not found")
	ErrChallengeNotPending = Conflict("challenge already processed")
	ErrChallengeNotActive  = InvalidState("challenge is not active")
)
