// Package coverbe is the HTTP client for the remote cover-letter API.
//
// Generation responses arrive as a text/event-stream and are exposed through
// the pull-based [coverletter.Stream] interface. The remaining endpoints
// (letter history, PDF export, accounts) are plain JSON.
package coverbe

const (
	defaultBaseURL  = "https://coverbe.onrender.com/api/v1"
	generatePath    = "/cover-letters/generate"
	lettersPath     = "/cover-letters"
	registerPath    = "/auth/register"
	loginPath       = "/auth/login"
	refreshPath     = "/auth/refresh"
	requestIDHeader = "X-Request-Id"
	eventStreamType = "text/event-stream"
)

// SSE payloads.

type sseComplete struct {
	CoverLetterID string `json:"cover_letter_id"`
}

type sseError struct {
	Error string `json:"error"`
}

// apiErrorResponse is the JSON body returned on non-2xx responses.
type apiErrorResponse struct {
	Error string `json:"error"`
}

type apiQueueResponse struct {
	Message       string `json:"message"`
	CoverLetterID string `json:"cover_letter_id"`
}

type apiStatusResponse struct {
	Status        string `json:"status"`
	CoverLetterID string `json:"cover_letter_id"`
	PDFURL        string `json:"pdf_url"`
	DownloadURL   string `json:"download_url"`
}

// apiLetter is a stored letter. pdf_status and pdf_url are null until an
// export is requested.
type apiLetter struct {
	ID              string `json:"id"`
	JobRequirements string `json:"job_requirements"`
	Content         string `json:"content"`
	PDFStatus       string `json:"pdf_status"`
	PDFURL          string `json:"pdf_url"`
	CreatedAt       string `json:"created_at"`
}

type apiLetterList struct {
	CoverLetters []apiLetter `json:"cover_letters"`
	Count        int         `json:"count"`
}

type apiLetterEnvelope struct {
	CoverLetter apiLetter `json:"cover_letter"`
}

type apiCredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type apiRefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type apiUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type apiTokens struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// apiAuthResponse is returned by register, login and refresh. Refresh
// responses may omit the user.
type apiAuthResponse struct {
	User   apiUser   `json:"user"`
	Tokens apiTokens `json:"tokens"`
}
