package bloodlinkserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	authports "github.com/bloodlink/bloodlink-api/internal/domains/auth/ports"
)

// Route binds an HTTP method and pattern to a handler.
type Route struct {
	Name        string
	Method      string
	Pattern     string
	HandlerFunc gin.HandlerFunc
}

// Routes is the list of the generated routes.
type Routes []Route

// ApiHandleFunctions groups the API controllers mounted on the router.
type ApiHandleFunctions struct {
	InstitutionAPI InstitutionAPI
	OrderAPI       OrderAPI
	DonorAPI       DonorAPI
	CampaignAPI    CampaignAPI
}

// NewRouter returns a new gin engine with all routes and the session
// middleware mounted.
func NewRouter(handleFunctions ApiHandleFunctions, sessions authports.SessionStore) *gin.Engine {
	return NewRouterWithGinEngine(gin.Default(), handleFunctions, sessions)
}

// NewRouterWithGinEngine adds the API routes to an existing gin engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, sessions authports.SessionStore) *gin.Engine {
	router.Use(AuthMiddleware(sessions))
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = defaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		case http.MethodPut:
			router.PUT(route.Pattern, route.HandlerFunc)
		case http.MethodPatch:
			router.PATCH(route.Pattern, route.HandlerFunc)
		case http.MethodDelete:
			router.DELETE(route.Pattern, route.HandlerFunc)
		}
	}
	return router
}

// defaultHandleFunc answers routes without an implementation.
func defaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

func getRoutes(handleFunctions ApiHandleFunctions) Routes {
	return Routes{
		{
			"RegisterHospital",
			http.MethodPost,
			"/v1/hospitals",
			handleFunctions.InstitutionAPI.RegisterHospital,
		},
		{
			"SignInHospital",
			http.MethodPost,
			"/v1/hospitals/signin",
			handleFunctions.InstitutionAPI.SignInHospital,
		},
		{
			"RegisterBloodBank",
			http.MethodPost,
			"/v1/bloodbanks",
			handleFunctions.InstitutionAPI.RegisterBloodBank,
		},
		{
			"SignInBloodBank",
			http.MethodPost,
			"/v1/bloodbanks/signin",
			handleFunctions.InstitutionAPI.SignInBloodBank,
		},
		{
			"ListBloodBanks",
			http.MethodGet,
			"/v1/bloodbanks",
			handleFunctions.InstitutionAPI.ListBloodBanks,
		},
		{
			"SignOutInstitution",
			http.MethodPost,
			"/v1/institutions/signout",
			handleFunctions.InstitutionAPI.SignOut,
		},
		{
			"GetInstitutionProfile",
			http.MethodGet,
			"/v1/institutions/me",
			handleFunctions.InstitutionAPI.GetProfile,
		},
		{
			"UpdateInstitutionProfile",
			http.MethodPatch,
			"/v1/institutions/me",
			handleFunctions.InstitutionAPI.UpdateProfile,
		},
		{
			"GetInstitutionStock",
			http.MethodGet,
			"/v1/institutions/me/stock",
			handleFunctions.InstitutionAPI.GetStock,
		},
		{
			"MergeInstitutionStock",
			http.MethodPatch,
			"/v1/institutions/me/stock",
			handleFunctions.InstitutionAPI.MergeStock,
		},
		{
			"ListInstitutionDonations",
			http.MethodGet,
			"/v1/institutions/me/donations",
			handleFunctions.DonorAPI.ListInstitutionDonations,
		},
		{
			"CreateOrder",
			http.MethodPost,
			"/v1/orders",
			handleFunctions.OrderAPI.CreateOrder,
		},
		{
			"ListOrders",
			http.MethodGet,
			"/v1/orders",
			handleFunctions.OrderAPI.ListOrders,
		},
		{
			"GetOrder",
			http.MethodGet,
			"/v1/orders/:orderId",
			handleFunctions.OrderAPI.GetOrder,
		},
		{
			"SettleOrder",
			http.MethodPost,
			"/v1/orders/:orderId/settle",
			handleFunctions.OrderAPI.SettleOrder,
		},
		{
			"RegisterDonor",
			http.MethodPost,
			"/v1/donors",
			handleFunctions.DonorAPI.RegisterDonor,
		},
		{
			"SignInDonor",
			http.MethodPost,
			"/v1/donors/signin",
			handleFunctions.DonorAPI.SignInDonor,
		},
		{
			"SignOutDonor",
			http.MethodPost,
			"/v1/donors/signout",
			handleFunctions.DonorAPI.SignOut,
		},
		{
			"GetDonorProfile",
			http.MethodGet,
			"/v1/donors/me",
			handleFunctions.DonorAPI.GetProfile,
		},
		{
			"UpdateDonorProfile",
			http.MethodPatch,
			"/v1/donors/me",
			handleFunctions.DonorAPI.UpdateProfile,
		},
		{
			"ListDonorDonations",
			http.MethodGet,
			"/v1/donors/me/donations",
			handleFunctions.DonorAPI.ListDonorDonations,
		},
		{
			"ListTopDonors",
			http.MethodGet,
			"/v1/donors/heroes",
			handleFunctions.DonorAPI.ListTopDonors,
		},
		{
			"RecordDonation",
			http.MethodPost,
			"/v1/donations",
			handleFunctions.DonorAPI.RecordDonation,
		},
		{
			"PostUrgentCall",
			http.MethodPost,
			"/v1/urgent-calls",
			handleFunctions.CampaignAPI.PostUrgentCall,
		},
		{
			"ListUrgentCalls",
			http.MethodGet,
			"/v1/urgent-calls",
			handleFunctions.CampaignAPI.ListUrgentCalls,
		},
		{
			"DeleteUrgentCall",
			http.MethodDelete,
			"/v1/urgent-calls/:callId",
			handleFunctions.CampaignAPI.DeleteUrgentCall,
		},
		{
			"PostBloodDrive",
			http.MethodPost,
			"/v1/blood-drives",
			handleFunctions.CampaignAPI.PostBloodDrive,
		},
		{
			"ListBloodDrives",
			http.MethodGet,
			"/v1/blood-drives",
			handleFunctions.CampaignAPI.ListBloodDrives,
		},
	}
}
