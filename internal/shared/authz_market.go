package shared

// Marketplace module grants: advertising, subscriptions, clients and user
// administration.
const (
	PermAdSlotCreate     = "AD_SLOT_CREATE"
	PermAdSlotUpdate     = "AD_SLOT_UPDATE"
	PermAdSlotSoftDelete = "AD_SLOT_SOFT_DELETE"
	PermAdSlotRestore    = "AD_SLOT_RESTORE"
	PermAdSlotView       = "AD_SLOT_VIEW"

	PermSubscriptionCreate     = "SUBSCRIPTION_CREATE"
	PermSubscriptionUpdate     = "SUBSCRIPTION_UPDATE"
	PermSubscriptionSoftDelete = "SUBSCRIPTION_SOFT_DELETE"
	PermSubscriptionRestore    = "SUBSCRIPTION_RESTORE"
	PermSubscriptionView       = "SUBSCRIPTION_VIEW"

	PermClientCreate     = "CLIENT_CREATE"
	PermClientUpdate     = "CLIENT_UPDATE"
	PermClientSoftDelete = "CLIENT_SOFT_DELETE"
	PermClientRestore    = "CLIENT_RESTORE"
	PermClientView       = "CLIENT_VIEW"

	PermClientAccessRightCreate     = "CLIENT_ACCESS_RIGHT_CREATE"
	PermClientAccessRightUpdate     = "CLIENT_ACCESS_RIGHT_UPDATE"
	PermClientAccessRightSoftDelete = "CLIENT_ACCESS_RIGHT_SOFT_DELETE"
	PermClientAccessRightRestore    = "CLIENT_ACCESS_RIGHT_RESTORE"
	PermClientAccessRightView       = "CLIENT_ACCESS_RIGHT_VIEW"

	PermUserCreate     = "USER_CREATE"
	PermUserUpdate     = "USER_UPDATE"
	PermUserSoftDelete = "USER_SOFT_DELETE"
	PermUserRestore    = "USER_RESTORE"
	PermUserView       = "USER_VIEW"
)

// MarketScopes lists all grants related to the marketplace modules.
func MarketScopes() []string {
	return []string{
		PermAdSlotCreate,
		PermAdSlotUpdate,
		PermAdSlotSoftDelete,
		PermAdSlotRestore,
		PermAdSlotView,
		PermSubscriptionCreate,
		PermSubscriptionUpdate,
		PermSubscriptionSoftDelete,
		PermSubscriptionRestore,
		PermSubscriptionView,
		PermClientCreate,
		PermClientUpdate,
		PermClientSoftDelete,
		PermClientRestore,
		PermClientView,
		PermClientAccessRightCreate,
		PermClientAccessRightUpdate,
		PermClientAccessRightSoftDelete,
		PermClientAccessRightRestore,
		PermClientAccessRightView,
		PermUserCreate,
		PermUserUpdate,
		PermUserSoftDelete,
		PermUserRestore,
		PermUserView,
	}
}

// AllScopes returns every grant known to the platform.
func AllScopes() []string {
	return append(ContentScopes(), MarketScopes()...)
}
