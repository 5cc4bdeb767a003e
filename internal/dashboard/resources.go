package dashboard

import (
	"fmt"

	"github.com/mauv0809/clubhouse/internal/club"
)

var managerResources = []Resource{
	ResSports, ResProposals, ResTournaments, ResPromotions, ResProfiles, ResNotifications, ResAssignments,
}

// ResourcesFor returns the resource set loaded for role.
func ResourcesFor(role club.Role) (ResourceSet, error) {
	switch role {
	case club.RolePlayer:
		return ResourceSet{
			Primary: ResPlayerDashboard,
			Others:  []Resource{ResNotifications, ResLinkRequests},
		}, nil
	case club.RoleCoach:
		return ResourceSet{
			Primary: ResCoachDashboard,
			Others:  []Resource{ResSports, ResSessions, ResAssignments, ResLinkRequests, ResNotifications, ResTournaments},
		}, nil
	case club.RoleManager:
		return ResourceSet{Primary: ResTeams, Others: managerResources}, nil
	case club.RoleAdmin:
		others := append(append([]Resource{}, managerResources...), ResLinkRequests)
		return ResourceSet{Primary: ResTeams, Others: others}, nil
	}
	return ResourceSet{}, fmt.Errorf("unknown role %q", role)
}
