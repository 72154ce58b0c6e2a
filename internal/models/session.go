package models

// Pages reachable from the console menu
const (
	PageLogin   = "Login Page"
	PageConsole = "User Management Console"
	PageAddUser = "Add User"
	PageClear   = "Clear Data"
	PageUpload  = "Upload Data"
)

// MenuPages lists the pages a logged-in session can navigate to, in menu order
var MenuPages = []string{PageConsole, PageAddUser, PageClear, PageUpload}

// IsMenuPage reports whether page is one of the menu options
func IsMenuPage(page string) bool {
	for _, p := range MenuPages {
		if p == page {
			return true
		}
	}
	return false
}

// Session is the per-browser console state. It lives in process memory only.
type Session struct {
	ID          string    `json:"-"`
	LoggedIn    bool      `json:"logged_in"`
	CurrentUser *UserView `json:"current_user,omitempty"`
	CurrentPage string    `json:"current_page"`
}

// Role returns the current user's role, or empty when logged out
func (s *Session) Role() Role {
	if s == nil || !s.LoggedIn || s.CurrentUser == nil {
		return ""
	}
	return s.CurrentUser.Role
}
