package marketplace

// Timestamps are kept as the backend sends them. The services emit local
// date-times without a zone, which time.Time cannot decode.

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
	RoleTasker   Role = "TASKER"
)

type User struct {
	ID                int64  `json:"id" yaml:"id"`
	Username          string `json:"username" yaml:"username"`
	Email             string `json:"email" yaml:"email"`
	FirstName         string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName          string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	PhoneNumber       string `json:"phoneNumber,omitempty" yaml:"phoneNumber,omitempty"`
	Bio               string `json:"bio,omitempty" yaml:"bio,omitempty"`
	Role              Role   `json:"role" yaml:"role"`
	EmailVerified     bool   `json:"emailVerified" yaml:"emailVerified"`
	ProfilePictureURL string `json:"profilePictureUrl,omitempty" yaml:"profilePictureUrl,omitempty"`
	IsActive          *bool  `json:"isActive,omitempty" yaml:"isActive,omitempty"`
	CreatedAt         string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt         string `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
	Role        Role   `json:"role"`
}

type AuthResponse struct {
	Token        string `json:"token,omitempty" yaml:"token,omitempty"`
	TokenType    string `json:"tokenType,omitempty" yaml:"tokenType,omitempty"`
	RefreshToken string `json:"refreshToken,omitempty" yaml:"refreshToken,omitempty"`
	User         *User  `json:"user,omitempty" yaml:"user,omitempty"`
	ExpiresIn    int64  `json:"expiresIn,omitempty" yaml:"expiresIn,omitempty"`
	Message      string `json:"message,omitempty" yaml:"message,omitempty"`
}

type TokenValidation struct {
	Valid     bool   `json:"valid" yaml:"valid"`
	ExpiresAt string `json:"expiresAt" yaml:"expiresAt"`
}

type VerificationStatus struct {
	Email    string `json:"email" yaml:"email"`
	Verified bool   `json:"verified" yaml:"verified"`
}

// APIResponse is the generic acknowledgement envelope.
type APIResponse struct {
	Success bool     `json:"success" yaml:"success"`
	Message string   `json:"message,omitempty" yaml:"message,omitempty"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
	Details []string `json:"details,omitempty" yaml:"details,omitempty"`
}

type UpdateProfileRequest struct {
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName,omitempty"`
	LastName    string   `json:"lastName,omitempty"`
	PhoneNumber string   `json:"phoneNumber,omitempty"`
	DateOfBirth string   `json:"dateOfBirth,omitempty"`
	Bio         string   `json:"bio,omitempty"`
	Skills      []string `json:"skills,omitempty"`
	HourlyRate  *float64 `json:"hourlyRate,omitempty"`
	Location    string   `json:"location,omitempty"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

type TaskStatus string

const (
	TaskDraft      TaskStatus = "DRAFT"
	TaskPublished  TaskStatus = "PUBLISHED"
	TaskAssigned   TaskStatus = "ASSIGNED"
	TaskInProgress TaskStatus = "IN_PROGRESS"
	TaskCompleted  TaskStatus = "COMPLETED"
	TaskCancelled  TaskStatus = "CANCELLED"
)

type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

type Task struct {
	ID                      int64        `json:"id" yaml:"id"`
	Title                   string       `json:"title" yaml:"title"`
	Description             string       `json:"description" yaml:"description"`
	RequirementsDescription string       `json:"requirementsDescription" yaml:"requirementsDescription"`
	Budget                  float64      `json:"budget" yaml:"budget"`
	Status                  TaskStatus   `json:"status" yaml:"status"`
	Priority                TaskPriority `json:"priority" yaml:"priority"`
	Location                string       `json:"location,omitempty" yaml:"location,omitempty"`
	IsRemote                bool         `json:"isRemote" yaml:"isRemote"`
	DueDate                 string       `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	EstimatedDuration       int          `json:"estimatedDuration,omitempty" yaml:"estimatedDuration,omitempty"`
	CustomerID              int64        `json:"customerId" yaml:"customerId"`
	CustomerName            string       `json:"customerName,omitempty" yaml:"customerName,omitempty"`
	TaskerID                int64        `json:"taskerId,omitempty" yaml:"taskerId,omitempty"`
	TaskerName              string       `json:"taskerName,omitempty" yaml:"taskerName,omitempty"`
	CategoryID              int64        `json:"categoryId,omitempty" yaml:"categoryId,omitempty"`
	CategoryName            string       `json:"categoryName,omitempty" yaml:"categoryName,omitempty"`
	Images                  []TaskImage  `json:"images,omitempty" yaml:"images,omitempty"`
	CreatedAt               string       `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt               string       `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

// TaskRequest creates a task, or partially updates one when fields are left zero.
type TaskRequest struct {
	Title                   string       `json:"title,omitempty"`
	Description             string       `json:"description,omitempty"`
	RequirementsDescription string       `json:"requirementsDescription,omitempty"`
	Budget                  float64      `json:"budget,omitempty"`
	Priority                TaskPriority `json:"priority,omitempty"`
	Location                string       `json:"location,omitempty"`
	IsRemote                *bool        `json:"isRemote,omitempty"`
	DueDate                 string       `json:"dueDate,omitempty"`
	EstimatedDuration       int          `json:"estimatedDuration,omitempty"`
	CategoryID              int64        `json:"categoryId,omitempty"`
}

type TaskImage struct {
	ID               int64  `json:"id" yaml:"id"`
	FileName         string `json:"fileName" yaml:"fileName"`
	OriginalFileName string `json:"originalFileName" yaml:"originalFileName"`
	FileSize         int64  `json:"fileSize" yaml:"fileSize"`
	ContentType      string `json:"contentType" yaml:"contentType"`
	IsPrimary        bool   `json:"isPrimary" yaml:"isPrimary"`
	UploadedAt       string `json:"uploadedAt,omitempty" yaml:"uploadedAt,omitempty"`
}

type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)

type TaskSearchParams struct {
	CategoryID    *int64
	MinBudget     *float64
	MaxBudget     *float64
	Location      *string
	IsRemote      *bool
	Priority      *TaskPriority
	Status        *TaskStatus
	Page          *int
	Size          *int
	SortBy        *string
	SortDirection *SortDirection
}

type Category struct {
	ID          int64  `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
	IconName    string `json:"iconName,omitempty" yaml:"iconName,omitempty"`
	IsActive    bool   `json:"isActive" yaml:"isActive"`
	CreatedAt   string `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

type CategoryRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	IconName    string `json:"iconName,omitempty"`
}

type CategorySearchParams struct {
	Name   *string
	Active *bool
	Page   *int
	Size   *int
}

// CategoryPage is the category search envelope, which numbers pages with
// "number" rather than "page".
type CategoryPage struct {
	Content       []Category `json:"content" yaml:"content"`
	TotalElements int64      `json:"totalElements" yaml:"totalElements"`
	TotalPages    int        `json:"totalPages" yaml:"totalPages"`
	Number        int        `json:"number" yaml:"number"`
	Size          int        `json:"size" yaml:"size"`
}

type BidStatus string

const (
	BidPending   BidStatus = "PENDING"
	BidAccepted  BidStatus = "ACCEPTED"
	BidRejected  BidStatus = "REJECTED"
	BidWithdrawn BidStatus = "WITHDRAWN"
	BidCompleted BidStatus = "COMPLETED"
	BidCancelled BidStatus = "CANCELLED"
)

type Bid struct {
	ID                       int64     `json:"id" yaml:"id"`
	TaskID                   int64     `json:"taskId" yaml:"taskId"`
	TaskTitle                string    `json:"taskTitle,omitempty" yaml:"taskTitle,omitempty"`
	TaskerID                 int64     `json:"taskerId" yaml:"taskerId"`
	TaskerName               string    `json:"taskerName,omitempty" yaml:"taskerName,omitempty"`
	Amount                   float64   `json:"amount" yaml:"amount"`
	Message                  string    `json:"message,omitempty" yaml:"message,omitempty"`
	EstimatedCompletionHours int       `json:"estimatedCompletionHours" yaml:"estimatedCompletionHours"`
	Status                   BidStatus `json:"status" yaml:"status"`
	CreatedAt                string    `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt                string    `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

type BidRequest struct {
	TaskID                   int64   `json:"taskId,omitempty"`
	Amount                   float64 `json:"amount,omitempty"`
	Message                  string  `json:"message,omitempty"`
	EstimatedCompletionHours int     `json:"estimatedCompletionHours,omitempty"`
}

type BidSearchParams struct {
	Status *BidStatus
	TaskID *int64
	Page   *int
	Size   *int
}

type BidStatistics struct {
	TotalBids        int64   `json:"totalBids" yaml:"totalBids"`
	AcceptedBids     int64   `json:"acceptedBids" yaml:"acceptedBids"`
	RejectedBids     int64   `json:"rejectedBids" yaml:"rejectedBids"`
	PendingBids      int64   `json:"pendingBids" yaml:"pendingBids"`
	CompletedBids    int64   `json:"completedBids,omitempty" yaml:"completedBids,omitempty"`
	SuccessRate      float64 `json:"successRate,omitempty" yaml:"successRate,omitempty"`
	AverageBidAmount float64 `json:"averageBidAmount" yaml:"averageBidAmount"`

	BidsByCategory []CategoryBids `json:"bidsByCategory,omitempty" yaml:"bidsByCategory,omitempty"`
	BidsTrend      []TrendPoint   `json:"bidsTrend,omitempty" yaml:"bidsTrend,omitempty"`
}

type CategoryBids struct {
	CategoryName  string  `json:"categoryName" yaml:"categoryName"`
	BidCount      int64   `json:"bidCount" yaml:"bidCount"`
	AverageAmount float64 `json:"averageAmount" yaml:"averageAmount"`
}

type TrendPoint struct {
	Date   string  `json:"date" yaml:"date"`
	Count  int64   `json:"count" yaml:"count"`
	Amount float64 `json:"amount,omitempty" yaml:"amount,omitempty"`
}

type PaymentType string

const (
	PaymentTask       PaymentType = "TASK_PAYMENT"
	PaymentRefund     PaymentType = "REFUND"
	PaymentServiceFee PaymentType = "SERVICE_FEE"
)

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "PENDING"
	PaymentProcessing PaymentStatus = "PROCESSING"
	PaymentCompleted  PaymentStatus = "COMPLETED"
	PaymentFailed     PaymentStatus = "FAILED"
	PaymentCancelled  PaymentStatus = "CANCELLED"
	PaymentRefunded   PaymentStatus = "REFUNDED"
)

type Payment struct {
	ID                    int64         `json:"id" yaml:"id"`
	CustomerID            int64         `json:"customerId" yaml:"customerId"`
	CustomerName          string        `json:"customerName,omitempty" yaml:"customerName,omitempty"`
	TaskerID              int64         `json:"taskerId,omitempty" yaml:"taskerId,omitempty"`
	TaskerName            string        `json:"taskerName,omitempty" yaml:"taskerName,omitempty"`
	TaskID                int64         `json:"taskId,omitempty" yaml:"taskId,omitempty"`
	BidID                 int64         `json:"bidId,omitempty" yaml:"bidId,omitempty"`
	Amount                float64       `json:"amount" yaml:"amount"`
	ServiceFee            float64       `json:"serviceFee" yaml:"serviceFee"`
	NetAmount             float64       `json:"netAmount" yaml:"netAmount"`
	PaymentType           PaymentType   `json:"paymentType" yaml:"paymentType"`
	Status                PaymentStatus `json:"status" yaml:"status"`
	PaymentMethod         string        `json:"paymentMethod,omitempty" yaml:"paymentMethod,omitempty"`
	ExternalTransactionID string        `json:"externalTransactionId,omitempty" yaml:"externalTransactionId,omitempty"`
	Description           string        `json:"description,omitempty" yaml:"description,omitempty"`
	RetryCount            int           `json:"retryCount" yaml:"retryCount"`
	MaxRetries            int           `json:"maxRetries" yaml:"maxRetries"`
	ProcessedAt           string        `json:"processedAt,omitempty" yaml:"processedAt,omitempty"`
	FailureReason         string        `json:"failureReason,omitempty" yaml:"failureReason,omitempty"`
	CreatedAt             string        `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	UpdatedAt             string        `json:"updatedAt,omitempty" yaml:"updatedAt,omitempty"`
}

type PaymentRequest struct {
	CustomerID  int64       `json:"customerId"`
	TaskerID    int64       `json:"taskerId,omitempty"`
	TaskID      int64       `json:"taskId,omitempty"`
	BidID       int64       `json:"bidId,omitempty"`
	Amount      float64     `json:"amount"`
	PaymentType PaymentType `json:"paymentType"`
	Description string      `json:"description,omitempty"`
}

type RefundRequest struct {
	Amount      float64 `json:"amount"`
	Reason      string  `json:"reason"`
	Description string  `json:"description,omitempty"`
}

type PaymentSearchParams struct {
	Status      *PaymentStatus
	PaymentType *PaymentType
	CustomerID  *int64
	TaskerID    *int64
	StartDate   *string
	EndDate     *string
	Page        *int
	Size        *int
}

type PaymentStatistics struct {
	TotalPayments    int64            `json:"totalPayments" yaml:"totalPayments"`
	TotalAmount      float64          `json:"totalAmount" yaml:"totalAmount"`
	TotalServiceFees float64          `json:"totalServiceFees" yaml:"totalServiceFees"`
	AverageTaskValue float64          `json:"averageTaskValue" yaml:"averageTaskValue"`
	MonthlyRevenue   []MonthlyRevenue `json:"monthlyRevenue,omitempty" yaml:"monthlyRevenue,omitempty"`
	PaymentsByStatus []StatusTotal    `json:"paymentsByStatus,omitempty" yaml:"paymentsByStatus,omitempty"`
}

type MonthlyRevenue struct {
	Month  string  `json:"month" yaml:"month"`
	Amount float64 `json:"amount" yaml:"amount"`
	Fees   float64 `json:"fees,omitempty" yaml:"fees,omitempty"`
}

type StatusTotal struct {
	Status string  `json:"status" yaml:"status"`
	Count  int64   `json:"count" yaml:"count"`
	Amount float64 `json:"amount" yaml:"amount"`
}

type ServiceFees struct {
	TotalFees   float64          `json:"totalFees" yaml:"totalFees"`
	MonthlyFees []MonthlyRevenue `json:"monthlyFees,omitempty" yaml:"monthlyFees,omitempty"`
}

type NotificationType string

const (
	NotificationEmail NotificationType = "EMAIL"
	NotificationSMS   NotificationType = "SMS"
	NotificationPush  NotificationType = "PUSH"
)

type NotificationStatus string

const (
	NotificationPending   NotificationStatus = "PENDING"
	NotificationSent      NotificationStatus = "SENT"
	NotificationDelivered NotificationStatus = "DELIVERED"
	NotificationFailed    NotificationStatus = "FAILED"
	NotificationRead      NotificationStatus = "READ"
)

type Notification struct {
	ID               int64              `json:"id" yaml:"id"`
	RecipientID      int64              `json:"recipientId" yaml:"recipientId"`
	RecipientEmail   string             `json:"recipientEmail,omitempty" yaml:"recipientEmail,omitempty"`
	RecipientPhone   string             `json:"recipientPhone,omitempty" yaml:"recipientPhone,omitempty"`
	NotificationType NotificationType   `json:"notificationType" yaml:"notificationType"`
	Subject          string             `json:"subject" yaml:"subject"`
	Content          string             `json:"content" yaml:"content"`
	Status           NotificationStatus `json:"status" yaml:"status"`
	SentAt           string             `json:"sentAt,omitempty" yaml:"sentAt,omitempty"`
	DeliveredAt      string             `json:"deliveredAt,omitempty" yaml:"deliveredAt,omitempty"`
	ReadAt           string             `json:"readAt,omitempty" yaml:"readAt,omitempty"`
	CreatedAt        string             `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

type EmailRequest struct {
	RecipientID    int64  `json:"recipientId"`
	RecipientEmail string `json:"recipientEmail"`
	Subject        string `json:"subject"`
	Content        string `json:"content"`
}

type SMSRequest struct {
	RecipientID    int64  `json:"recipientId"`
	RecipientPhone string `json:"recipientPhone"`
	Content        string `json:"content"`
}

type TaskEvent string

const (
	TaskEventCreated   TaskEvent = "TASK_CREATED"
	TaskEventUpdated   TaskEvent = "TASK_UPDATED"
	TaskEventAssigned  TaskEvent = "TASK_ASSIGNED"
	TaskEventCompleted TaskEvent = "TASK_COMPLETED"
	TaskEventBidIn     TaskEvent = "BID_RECEIVED"
	TaskEventBidWon    TaskEvent = "BID_ACCEPTED"
)

type TaskNotification struct {
	TaskID         int64
	TaskTitle      string
	RecipientID    int64
	RecipientEmail string
	Event          TaskEvent
}

type PaymentEvent string

const (
	PaymentEventProcessed PaymentEvent = "PAYMENT_PROCESSED"
	PaymentEventReceived  PaymentEvent = "PAYMENT_RECEIVED"
	PaymentEventRefunded  PaymentEvent = "REFUND_PROCESSED"
)

type PaymentNotification struct {
	PaymentID      int64
	RecipientID    int64
	RecipientEmail string
	Amount         float64
	TaskTitle      string
	Event          PaymentEvent
}

type UserSearchParams struct {
	Username *string
	Email    *string
	Role     *Role
	Active   *bool
	Page     *int
	Size     *int
}

type AdminStats struct {
	TotalUsers          int64   `json:"totalUsers" yaml:"totalUsers"`
	TotalCustomers      int64   `json:"totalCustomers" yaml:"totalCustomers"`
	TotalTaskers        int64   `json:"totalTaskers" yaml:"totalTaskers"`
	TotalTasks          int64   `json:"totalTasks" yaml:"totalTasks"`
	TotalActiveTasks    int64   `json:"totalActiveTasks" yaml:"totalActiveTasks"`
	TotalCompletedTasks int64   `json:"totalCompletedTasks" yaml:"totalCompletedTasks"`
	TotalBids           int64   `json:"totalBids" yaml:"totalBids"`
	TotalActiveBids     int64   `json:"totalActiveBids" yaml:"totalActiveBids"`
	TotalRevenue        float64 `json:"totalRevenue" yaml:"totalRevenue"`
	MonthlyRevenue      float64 `json:"monthlyRevenue" yaml:"monthlyRevenue"`
}

type UserStatistics struct {
	TotalUsers            int64        `json:"totalUsers" yaml:"totalUsers"`
	NewUsersThisMonth     int64        `json:"newUsersThisMonth" yaml:"newUsersThisMonth"`
	UsersByRole           []RoleCount  `json:"usersByRole,omitempty" yaml:"usersByRole,omitempty"`
	UserRegistrationTrend []TrendPoint `json:"userRegistrationTrend,omitempty" yaml:"userRegistrationTrend,omitempty"`
	TopTaskers            []TopTasker  `json:"topTaskers,omitempty" yaml:"topTaskers,omitempty"`
	TopCustomers          []TopBuyer   `json:"topCustomers,omitempty" yaml:"topCustomers,omitempty"`
}

type RoleCount struct {
	Role  string `json:"role" yaml:"role"`
	Count int64  `json:"count" yaml:"count"`
}

type TopTasker struct {
	User           User    `json:"user" yaml:"user"`
	CompletedTasks int64   `json:"completedTasks" yaml:"completedTasks"`
	AverageRating  float64 `json:"averageRating" yaml:"averageRating"`
	TotalEarnings  float64 `json:"totalEarnings" yaml:"totalEarnings"`
}

type TopBuyer struct {
	User         User    `json:"user" yaml:"user"`
	CreatedTasks int64   `json:"createdTasks" yaml:"createdTasks"`
	TotalSpent   float64 `json:"totalSpent" yaml:"totalSpent"`
}

type PlatformHealth struct {
	Status              string  `json:"status" yaml:"status"`
	Uptime              float64 `json:"uptime" yaml:"uptime"`
	ActiveUsers         int64   `json:"activeUsers" yaml:"activeUsers"`
	ErrorRate           float64 `json:"errorRate" yaml:"errorRate"`
	AverageResponseTime float64 `json:"averageResponseTime" yaml:"averageResponseTime"`
}

type Activity struct {
	ID          int64          `json:"id" yaml:"id"`
	Type        string         `json:"type" yaml:"type"`
	Description string         `json:"description" yaml:"description"`
	UserID      int64          `json:"userId" yaml:"userId"`
	UserName    string         `json:"userName" yaml:"userName"`
	Timestamp   string         `json:"timestamp" yaml:"timestamp"`
	Metadata    map[string]any `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

type SystemConfig struct {
	MaintenanceMode          *bool    `json:"maintenanceMode,omitempty" yaml:"maintenanceMode,omitempty"`
	RegistrationEnabled      *bool    `json:"registrationEnabled,omitempty" yaml:"registrationEnabled,omitempty"`
	PaymentProcessingEnabled *bool    `json:"paymentProcessingEnabled,omitempty" yaml:"paymentProcessingEnabled,omitempty"`
	NotificationsEnabled     *bool    `json:"notificationsEnabled,omitempty" yaml:"notificationsEnabled,omitempty"`
	MaxTasksPerUser          *int     `json:"maxTasksPerUser,omitempty" yaml:"maxTasksPerUser,omitempty"`
	MaxBidsPerTask           *int     `json:"maxBidsPerTask,omitempty" yaml:"maxBidsPerTask,omitempty"`
	ServiceFeePercentage     *float64 `json:"serviceFeePercentage,omitempty" yaml:"serviceFeePercentage,omitempty"`
}
