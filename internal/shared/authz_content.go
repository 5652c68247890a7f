package shared

// Content module grants declared for fine-grained authorization. Grants are
// independent of roles: a check passes when either the role ranks high
// enough or the grant is present.
const (
	PermDestinationCreate           = "DESTINATION_CREATE"
	PermDestinationUpdate           = "DESTINATION_UPDATE"
	PermDestinationSoftDelete       = "DESTINATION_SOFT_DELETE"
	PermDestinationRestore          = "DESTINATION_RESTORE"
	PermDestinationViewPrivate      = "DESTINATION_VIEW_PRIVATE"
	PermDestinationUpdateVisibility = "DESTINATION_UPDATE_VISIBILITY"

	PermAccommodationCreate           = "ACCOMMODATION_CREATE"
	PermAccommodationUpdate           = "ACCOMMODATION_UPDATE"
	PermAccommodationSoftDelete       = "ACCOMMODATION_SOFT_DELETE"
	PermAccommodationRestore          = "ACCOMMODATION_RESTORE"
	PermAccommodationViewPrivate      = "ACCOMMODATION_VIEW_PRIVATE"
	PermAccommodationUpdateVisibility = "ACCOMMODATION_UPDATE_VISIBILITY"

	PermEventCreate           = "EVENT_CREATE"
	PermEventUpdate           = "EVENT_UPDATE"
	PermEventSoftDelete       = "EVENT_SOFT_DELETE"
	PermEventRestore          = "EVENT_RESTORE"
	PermEventViewPrivate      = "EVENT_VIEW_PRIVATE"
	PermEventUpdateVisibility = "EVENT_UPDATE_VISIBILITY"

	PermPostCreate           = "POST_CREATE"
	PermPostUpdate           = "POST_UPDATE"
	PermPostSoftDelete       = "POST_SOFT_DELETE"
	PermPostRestore          = "POST_RESTORE"
	PermPostViewPrivate      = "POST_VIEW_PRIVATE"
	PermPostUpdateVisibility = "POST_UPDATE_VISIBILITY"

	PermPostSponsorCreate     = "POST_SPONSOR_CREATE"
	PermPostSponsorUpdate     = "POST_SPONSOR_UPDATE"
	PermPostSponsorSoftDelete = "POST_SPONSOR_SOFT_DELETE"
	PermPostSponsorRestore    = "POST_SPONSOR_RESTORE"
	PermPostSponsorView       = "POST_SPONSOR_VIEW"
)

// ContentScopes lists all grants related to the content modules.
func ContentScopes() []string {
	return []string{
		PermDestinationCreate,
		PermDestinationUpdate,
		PermDestinationSoftDelete,
		PermDestinationRestore,
		PermDestinationViewPrivate,
		PermDestinationUpdateVisibility,
		PermAccommodationCreate,
		PermAccommodationUpdate,
		PermAccommodationSoftDelete,
		PermAccommodationRestore,
		PermAccommodationViewPrivate,
		PermAccommodationUpdateVisibility,
		PermEventCreate,
		PermEventUpdate,
		PermEventSoftDelete,
		PermEventRestore,
		PermEventViewPrivate,
		PermEventUpdateVisibility,
		PermPostCreate,
		PermPostUpdate,
		PermPostSoftDelete,
		PermPostRestore,
		PermPostViewPrivate,
		PermPostUpdateVisibility,
		PermPostSponsorCreate,
		PermPostSponsorUpdate,
		PermPostSponsorSoftDelete,
		PermPostSponsorRestore,
		PermPostSponsorView,
	}
}
