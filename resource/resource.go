// Package resource describes the dashboard sections a signed-in account can open.
package resource

import "narration-desk/constants"

type ModuleResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Route        string `json:"route"`
	Permission   string `json:"permission"`
	IsActive     bool   `json:"is_active"`
	Serializable int    `json:"serializable"`
}

var modules = []ModuleResponse{
	{ID: 1, Name: "Overview", Route: "/admin/dashboard", Permission: constants.PermDashboardView, IsActive: true, Serializable: 1},
	{ID: 2, Name: "Requests", Route: "/admin/dashboard#requests", Permission: constants.PermBookingsManage, IsActive: true, Serializable: 2},
	{ID: 3, Name: "First Fifteen", Route: "/admin/dashboard#f15", Permission: constants.PermBookingsManage, IsActive: true, Serializable: 3},
	{ID: 4, Name: "Auditions", Route: "/admin/dashboard#auditions", Permission: constants.PermBookingsManage, IsActive: true, Serializable: 4},
	{ID: 5, Name: "Archive", Route: "/admin/dashboard#archive", Permission: constants.PermBookingsManage, IsActive: true, Serializable: 5},
	{ID: 6, Name: "Posts", Route: "/admin/dashboard#posts", Permission: constants.PermPostsManage, IsActive: true, Serializable: 6},
}

// Modules returns the active sections allowed by perms, in display order.
// The full admin permit opens all of them, and any management permit
// implies the read-only overview.
func Modules(perms map[string]bool) []ModuleResponse {
	full := perms[constants.PermAdminFull]
	canView := full
	for _, p := range constants.DashboardPermissions {
		canView = canView || perms[p]
	}

	out := make([]ModuleResponse, 0, len(modules))
	for _, m := range modules {
		if !m.IsActive {
			continue
		}
		if full || perms[m.Permission] || (m.Permission == constants.PermDashboardView && canView) {
			out = append(out, m)
		}
	}
	return out
}
