package submissions

const notProvided = "Not provided"

// Topic is the subject a visitor picks on the contact form.
type Topic string

const (
	TopicSales       Topic = "sales"
	TopicDemo        Topic = "demo"
	TopicSupport     Topic = "support"
	TopicBilling     Topic = "billing"
	TopicPartnership Topic = "partnership"
	TopicOther       Topic = "other"
)

var topicLabels = map[Topic]string{
	TopicSales:       "Sales inquiry",
	TopicDemo:        "Product demo",
	TopicSupport:     "Technical support",
	TopicBilling:     "Billing question",
	TopicPartnership: "Partnership",
	TopicOther:       "Other",
}

func (t Topic) Valid() bool   { return known(topicLabels, t) }
func (t Topic) Label() string { return labelOf(topicLabels, t) }

type CompanySize string

const (
	CompanySizeSolo       CompanySize = "1"
	CompanySizeSmall      CompanySize = "2-10"
	CompanySizeMedium     CompanySize = "11-50"
	CompanySizeLarge      CompanySize = "51-200"
	CompanySizeEnterprise CompanySize = "200+"
)

var companySizeLabels = map[CompanySize]string{
	CompanySizeSolo:       "Just me",
	CompanySizeSmall:      "2 to 10 employees",
	CompanySizeMedium:     "11 to 50 employees",
	CompanySizeLarge:      "51 to 200 employees",
	CompanySizeEnterprise: "More than 200 employees",
}

func (c CompanySize) Valid() bool   { return known(companySizeLabels, c) }
func (c CompanySize) Label() string { return labelOf(companySizeLabels, c) }

// Feature is a product module a lead is interested in.
type Feature string

const (
	FeatureInvoicing  Feature = "invoicing"
	FeatureInventory  Feature = "inventory"
	FeaturePayroll    Feature = "payroll"
	FeatureScheduling Feature = "scheduling"
	FeatureCRM        Feature = "crm"
	FeaturePOS        Feature = "pos"
	FeatureReports    Feature = "reports"
)

var featureLabels = map[Feature]string{
	FeatureInvoicing:  "Invoicing",
	FeatureInventory:  "Inventory management",
	FeaturePayroll:    "Payroll",
	FeatureScheduling: "Appointments and scheduling",
	FeatureCRM:        "Customer management",
	FeaturePOS:        "Point of sale",
	FeatureReports:    "Reports and analytics",
}

func (f Feature) Valid() bool   { return known(featureLabels, f) }
func (f Feature) Label() string { return labelOf(featureLabels, f) }

type PartnerType string

const (
	PartnerTypeReseller    PartnerType = "reseller"
	PartnerTypeReferral    PartnerType = "referral"
	PartnerTypeIntegration PartnerType = "integration"
	PartnerTypeConsultant  PartnerType = "consultant"
	PartnerTypeAccountant  PartnerType = "accountant"
)

var partnerTypeLabels = map[PartnerType]string{
	PartnerTypeReseller:    "Reseller",
	PartnerTypeReferral:    "Referral partner",
	PartnerTypeIntegration: "Technology integration",
	PartnerTypeConsultant:  "Implementation consultant",
	PartnerTypeAccountant:  "Accounting firm",
}

func (p PartnerType) Valid() bool   { return known(partnerTypeLabels, p) }
func (p PartnerType) Label() string { return labelOf(partnerTypeLabels, p) }

type Region string

const (
	RegionNorthAmerica Region = "north_america"
	RegionLatinAmerica Region = "latin_america"
	RegionEurope       Region = "europe"
	RegionAfrica       Region = "africa"
	RegionMiddleEast   Region = "middle_east"
	RegionAsiaPacific  Region = "asia_pacific"
)

var regionLabels = map[Region]string{
	RegionNorthAmerica: "North America",
	RegionLatinAmerica: "Latin America",
	RegionEurope:       "Europe",
	RegionAfrica:       "Africa",
	RegionMiddleEast:   "Middle East",
	RegionAsiaPacific:  "Asia Pacific",
}

func (r Region) Valid() bool   { return known(regionLabels, r) }
func (r Region) Label() string { return labelOf(regionLabels, r) }

type PartnerService string

const (
	ServiceImplementation PartnerService = "implementation"
	ServiceTraining       PartnerService = "training"
	ServiceSupport        PartnerService = "support"
	ServiceDevelopment    PartnerService = "development"
	ServiceAccounting     PartnerService = "accounting"
	ServiceMigration      PartnerService = "migration"
)

var partnerServiceLabels = map[PartnerService]string{
	ServiceImplementation: "Implementation and onboarding",
	ServiceTraining:       "Training",
	ServiceSupport:        "First-line support",
	ServiceDevelopment:    "Custom development",
	ServiceAccounting:     "Bookkeeping and accounting",
	ServiceMigration:      "Data migration",
}

func (s PartnerService) Valid() bool   { return known(partnerServiceLabels, s) }
func (s PartnerService) Label() string { return labelOf(partnerServiceLabels, s) }

// ClientRange is how many clients a partner currently serves.
type ClientRange string

const (
	ClientRangeStarting ClientRange = "0"
	ClientRangeFew      ClientRange = "1-10"
	ClientRangeSome     ClientRange = "11-50"
	ClientRangeMany     ClientRange = "51+"
)

var clientRangeLabels = map[ClientRange]string{
	ClientRangeStarting: "Just getting started",
	ClientRangeFew:      "1 to 10 clients",
	ClientRangeSome:     "11 to 50 clients",
	ClientRangeMany:     "More than 50 clients",
}

func (c ClientRange) Valid() bool   { return known(clientRangeLabels, c) }
func (c ClientRange) Label() string { return labelOf(clientRangeLabels, c) }

type Locale string

const (
	LocaleEnglish    Locale = "en"
	LocaleSpanish    Locale = "es"
	LocalePortuguese Locale = "pt"

	defaultLocale = LocaleEnglish
)

var localeLabels = map[Locale]string{
	LocaleEnglish:    "English",
	LocaleSpanish:    "Español",
	LocalePortuguese: "Português",
}

func (l Locale) Valid() bool   { return known(localeLabels, l) }
func (l Locale) Label() string { return labelOf(localeLabels, l.OrDefault()) }

// OrDefault returns l, or English when l is empty.
func (l Locale) OrDefault() Locale {
	if l == "" {
		return defaultLocale
	}
	return l
}

var confirmationSubjects = map[Locale]string{
	LocaleEnglish:    "We received your message",
	LocaleSpanish:    "Hemos recibido tu mensaje",
	LocalePortuguese: "Recebemos a sua mensagem",
}

func known[T comparable](table map[T]string, code T) bool {
	_, ok := table[code]
	return ok
}

func labelOf[T comparable](table map[T]string, code T) string {
	if label, ok := table[code]; ok {
		return label
	}
	return notProvided
}

// labelsOf translates codes in order. Unknown codes are skipped.
func labelsOf[T comparable](table map[T]string, codes []T) []string {
	labels := make([]string, 0, len(codes))
	for _, code := range codes {
		if label, ok := table[code]; ok {
			labels = append(labels, label)
		}
	}
	return labels
}

func codesOf[T ~string](codes []T) []string {
	out := make([]string, len(codes))
	for i, code := range codes {
		out[i] = string(code)
	}
	return out
}
