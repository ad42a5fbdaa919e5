package services

import "github.com/SinaAfzali/elite-bite/entity"

// Actor is the authenticated caller, resolved once at the request boundary
// and passed into every operation. The zero value means unauthenticated.
type Actor struct {
	UserID uint
	Email  string
	Role   string
}

func (a Actor) IsCustomer() bool { return a.UserID != 0 && a.Role == entity.RoleCustomer }
func (a Actor) IsManager() bool { return a.UserID != 0 && a.Role == entity.RoleManager }

func requireCustomer(a Actor) error {
	if !a.IsCustomer() {
		return &Error{Kind: KindUnauthorized, Msg: "customer is not logged in"}
	}
	return nil
}

func requireManager(a Actor) error {
	if !a.IsManager() {
		return &Error{Kind: KindUnauthorized, Msg: "restaurant manager is not logged in"}
	}
	return nil
}
