package constants

// PermissionRoles maps each permission to roles allowed to perform it.
var PermissionRoles = map[string][]string{
	ViewData:       {Investor, Admin},
	BuyShares:      {Investor, Admin},
	PayInstallment: {Investor, Admin},
	DistributeRent: {Investor, Admin},
	ManageFunds:    {Investor, Admin},
	ListProperty:   {Admin},
	SubmitRent:     {Admin},
	TogglePause:    {Admin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
