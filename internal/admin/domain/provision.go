package domain

// ProvisionRequest carries the identity and credential the provisioner should
// ensure exists. ForceUpdate opts into rotating the password of an account
// that is already present.
type ProvisionRequest struct {
	Email       string
	Username    string
	Password    string
	FirstName   string
	LastName    string
	ForceUpdate bool
}

// ProvisionOutcome describes the action a provisioning run took.
type ProvisionOutcome string

const (
	// OutcomeCreated means no account matched the email and one was inserted.
	OutcomeCreated ProvisionOutcome = "created"

	// OutcomeExists means an account already matched and no mutation was
	// performed; rotation requires the explicit force flag.
	OutcomeExists ProvisionOutcome = "exists"

	// OutcomeRotated means an account matched and its password was replaced.
	OutcomeRotated ProvisionOutcome = "rotated"
)
