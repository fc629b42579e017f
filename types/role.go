package types

// Tier identifies the organizational layer a role belongs to.
type Tier string

const (
	TierExecutive  Tier = "executive"
	TierManagement Tier = "management"
	TierSpecialist Tier = "specialist"
)

// Role is the closed enumeration of organizational roles. It serves both as
// the registry key for subordinates and as the assigned_to/assigned_by fields
// of the task protocol.
type Role string

// Executive tier.
const (
	RoleCMO                    Role = "cmo"
	RoleVPMarketing            Role = "vp_marketing"
	RoleDirectorCommunications Role = "director_communications"
)

// Management tier.
const (
	RoleCampaignManager    Role = "campaign_manager"
	RoleContentManager     Role = "content_manager"
	RoleSocialMediaManager Role = "social_media_manager"
)

// Specialist tier.
const (
	RoleLinkedInManager     Role = "linkedin_manager"
	RoleTwitterManager      Role = "twitter_manager"
	RoleCopywriter          Role = "copywriter"
	RoleSEOSpecialist       Role = "seo_specialist"
	RoleDesigner            Role = "designer"
	RoleEmailSpecialist     Role = "email_specialist"
	RoleAnalyticsSpecialist Role = "analytics_specialist"
	RoleMarketResearch      Role = "market_research"
)

var roleTiers = map[Role]Tier{
	RoleCMO:                    TierExecutive,
	RoleVPMarketing:            TierExecutive,
	RoleDirectorCommunications: TierExecutive,

	RoleCampaignManager:    TierManagement,
	RoleContentManager:     TierManagement,
	RoleSocialMediaManager: TierManagement,

	RoleLinkedInManager:     TierSpecialist,
	RoleTwitterManager:      TierSpecialist,
	RoleCopywriter:          TierSpecialist,
	RoleSEOSpecialist:       TierSpecialist,
	RoleDesigner:            TierSpecialist,
	RoleEmailSpecialist:     TierSpecialist,
	RoleAnalyticsSpecialist: TierSpecialist,
	RoleMarketResearch:      TierSpecialist,
}

// Tier returns the organizational tier of the role, or "" for unknown roles.
func (r Role) Tier() Tier {
	return roleTiers[r]
}

// Valid reports whether r is a member of the closed role enumeration.
func (r Role) Valid() bool {
	_, ok := roleTiers[r]
	return ok
}

// String implements fmt.Stringer.
func (r Role) String() string { return string(r) }
