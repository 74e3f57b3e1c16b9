// Package authz decides whether an actor may perform an action on an event,
// a signup or a comment. Every decision is made from in-memory snapshots:
// the package never touches storage or the network.
package authz

import (
	"github.com/vietanh2810/volunteer-api/internal/domain"
)

type Action int

const (
	ListApprovedEvents Action = iota
	ListAllEvents
	ViewApprovedEvent
	CreateEvent
	EditEvent
	ChangeEventStatus
	ApproveEvent
	DeclineEvent
	DeleteEvent
	ViewRoster
	SignUp
	Withdraw
	MarkAttendance
	ViewAttendance
	PostComment
	ViewComments
	DeleteComment
)

// Actions lists every action, in declaration order.
var Actions = []Action{
	ListApprovedEvents, ListAllEvents, ViewApprovedEvent, CreateEvent, EditEvent,
	ChangeEventStatus, ApproveEvent, DeclineEvent, DeleteEvent, ViewRoster,
	SignUp, Withdraw, MarkAttendance, ViewAttendance, PostComment, ViewComments, DeleteComment,
}

var actionNames = map[Action]string{
	ListApprovedEvents: "list approved events",
	ListAllEvents:      "list all events",
	ViewApprovedEvent:  "view approved event",
	CreateEvent:        "create event",
	EditEvent:          "edit event",
	ChangeEventStatus:  "change event status",
	ApproveEvent:       "approve event",
	DeclineEvent:       "decline event",
	DeleteEvent:        "delete event",
	ViewRoster:         "view signup roster",
	SignUp:             "sign up for event",
	Withdraw:           "withdraw from event",
	MarkAttendance:     "mark attendance",
	ViewAttendance:     "view attendance",
	PostComment:        "post comment",
	ViewComments:       "view comments",
	DeleteComment:      "delete comment",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "unknown action"
}

// Resource is the snapshot an action targets. Fields that do not apply to an
// action are left zero.
type Resource struct {
	// CreatedBy is the event creator.
	CreatedBy uint
	// Status is the event status.
	Status domain.EventStatus
	// OwnerID is the user a signup belongs to.
	OwnerID uint
}

// EventResource builds the snapshot for actions on e.
func EventResource(e domain.Event) *Resource {
	return &Resource{
		CreatedBy: e.CreatedBy,
		Status:    e.Status,
	}
}

type Verdict int

const (
	Deny Verdict = iota
	Permit
)

func (v Verdict) String() string {
	if v == Permit {
		return "permit"
	}
	return "deny"
}

type DenyReason int

const (
	ReasonNone DenyReason = iota
	ReasonUnauthenticated
	ReasonInsufficientRole
	ReasonNotOwner
	ReasonEventNotOpen
)

func (r DenyReason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonUnauthenticated:
		return "unauthenticated"
	case ReasonInsufficientRole:
		return "insufficient role"
	case ReasonNotOwner:
		return "not owner"
	case ReasonEventNotOpen:
		return "event not open"
	default:
		return "unknown"
	}
}

type Decision struct {
	Verdict Verdict
	Reason  DenyReason
}

func (d Decision) Permitted() bool {
	return d.Verdict == Permit
}

// Err maps a denial onto the domain error taxonomy. It returns nil for a permit.
func (d Decision) Err() error {
	if d.Permitted() {
		return nil
	}

	switch d.Reason {
	case ReasonUnauthenticated:
		return domain.ErrUnauthenticated
	case ReasonNotOwner:
		return domain.ErrNotOwner
	case ReasonEventNotOpen:
		return domain.ErrEventNotOpen
	default:
		return domain.ErrInsufficientRole
	}
}

func permit() Decision {
	return Decision{Verdict: Permit}
}

func deny(reason DenyReason) Decision {
	return Decision{Verdict: Deny, Reason: reason}
}

// Policy holds the switches that are product decisions rather than fixed rules.
type Policy struct {
	// OwnerCanViewRoster lets an event's creator read its signup roster.
	OwnerCanViewRoster bool
}

type Authorizer struct {
	policy Policy
}

func NewAuthorizer(policy Policy) *Authorizer {
	return &Authorizer{policy: policy}
}

// Authorize evaluates the role grant first and, only when that fails, the
// ownership override for actions that have one.
func (a *Authorizer) Authorize(actor domain.Actor, action Action, resource *Resource) Decision {
	if roleGrants(actor.Role, action) {
		return a.checkResource(actor, action, resource)
	}

	if a.overridable(action) && !actor.IsGuest() {
		if resource != nil && resource.CreatedBy == actor.ID && actor.ID != 0 {
			return permit()
		}
		return deny(ReasonNotOwner)
	}

	if actor.IsGuest() {
		return deny(ReasonUnauthenticated)
	}
	return deny(ReasonInsufficientRole)
}

// checkResource applies the conditions some granted actions carry on top of the role.
func (a *Authorizer) checkResource(actor domain.Actor, action Action, resource *Resource) Decision {
	if resource == nil {
		return permit()
	}

	switch action {
	case SignUp:
		if resource.Status != domain.EventApproved {
			return deny(ReasonEventNotOpen)
		}
	case Withdraw:
		if resource.OwnerID != 0 && resource.OwnerID != actor.ID {
			return deny(ReasonNotOwner)
		}
	}

	return permit()
}

func (a *Authorizer) overridable(action Action) bool {
	switch action {
	case EditEvent, DeleteEvent:
		return true
	case ViewRoster:
		return a.policy.OwnerCanViewRoster
	default:
		return false
	}
}

// roleGrants is the role half of the access matrix.
func roleGrants(role domain.Role, action Action) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleEventCoordinator:
		switch action {
		case ListApprovedEvents, ViewApprovedEvent, ViewComments, ViewAttendance,
			CreateEvent, SignUp, Withdraw, PostComment,
			ViewRoster, MarkAttendance:
			return true
		}
		return false
	case domain.RoleRegisteredUser:
		switch action {
		case ListApprovedEvents, ViewApprovedEvent, ViewComments, ViewAttendance,
			CreateEvent, SignUp, Withdraw, PostComment:
			return true
		}
		return false
	case domain.RoleGuest:
		switch action {
		case ListApprovedEvents, ViewApprovedEvent, ViewComments:
			return true
		}
		return false
	default:
		return false
	}
}
