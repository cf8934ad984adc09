package constants

// Dashboard permissions
const (
	// Full access, including hard delete and account management
	PermAdminFull = "narration-desk.admin.full-permit"
	// Booking pipeline management
	PermBookingsManage = "narration-desk.bookings.manage"
	// Blog posts
	PermPostsManage = "narration-desk.posts.manage"
	// Read-only dashboard access
	PermDashboardView = "narration-desk.dashboard.view"

	// Special permissions
	PermAny = "any"
)

// Permission groups for convenience
var (
	BookingManagerPermissions = []string{
		PermAdminFull,
		PermBookingsManage,
	}
	PostManagerPermissions = []string{
		PermAdminFull,
		PermPostsManage,
	}
	DashboardPermissions = []string{
		PermAdminFull,
		PermBookingsManage,
		PermPostsManage,
		PermDashboardView,
	}
)
