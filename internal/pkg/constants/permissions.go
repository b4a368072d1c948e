package constants

const (
	MintCertificate     = "mint_certificate"
	TransferCertificate = "transfer_certificate"
	UpdateMetadata      = "update_metadata"
	CreateListing       = "create_listing"
	EditListing         = "edit_listing"
	CancelListing       = "cancel_listing"
	DelistToken         = "delist_token"
	BuyCertificate      = "buy_certificate"
	MakeOffer           = "make_offer"
	RetireCertificate   = "retire_certificate"
	ViewData            = "view_data"
)

// PermissionRoles maps each permission to the roles allowed to perform it.
// Minting is issuer-only; force-delist is open to every authenticated role.
var PermissionRoles = map[string][]string{
	MintCertificate:     {Issuer, Admin},
	TransferCertificate: {Holder, Issuer, Admin},
	UpdateMetadata:      {Holder, Issuer, Admin},
	CreateListing:       {Holder, Issuer, Admin},
	EditListing:         {Holder, Issuer, Admin},
	CancelListing:       {Holder, Issuer, Admin},
	DelistToken:         {Holder, Issuer, Admin},
	BuyCertificate:      {Holder, Issuer, Admin},
	MakeOffer:           {Holder, Issuer, Admin},
	RetireCertificate:   {Holder, Issuer, Admin},
	ViewData:            {Holder, Issuer, Admin},
}

// AllowedRole returns true if role may perform the permission.
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
