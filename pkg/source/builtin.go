// pkg/source/builtin.go
package source

import (
	"strings"
	"time"

	"github.com/cl0ver012/whd-ai-assistant/pkg/cleaner"
	"github.com/cl0ver012/whd-ai-assistant/pkg/model"
	"github.com/cl0ver012/whd-ai-assistant/pkg/reader"
)

const (
	defaultRowDelay      = 50 * time.Millisecond
	defaultEmbedRowDelay = 500 * time.Millisecond
)

var periodParts = []string{cleaner.PartPeriod, cleaner.PartYear, cleaner.PartMonth}

func boolean(name string, fn cleaner.ComputeFunc) cleaner.Computed {
	return cleaner.Computed{Name: name, Kind: model.KindBoolean, Func: fn}
}

// Meta Ads

var metaAdsTemplate = cleaner.MustTemplate("meta_ads", `Meta Ads Performance Record

Date: {{.day}}
Campaign: {{.campaign_name}}
Ad Set: {{.ad_set_name}}
Ad Name: {{.ad_name}}
Objective: {{.objective}}
Result Type: {{.result_type}}

Performance Metrics:
- Reach: {{comma .reach}}
- Impressions: {{comma .impressions}}
- Frequency: {{.frequency}}
- Results: {{.results}}
- Amount Spent: AUD {{money .amount_spent}}
- Cost Per Result: AUD {{money .cost_per_result}}
- Link Clicks: {{.link_clicks}}
- CPC: AUD {{money .cpc}}
- CPM: AUD {{money .cpm}}

Video Metrics:
- Average Play Time: {{.video_avg_play_time}}s
- ThruPlays: {{.thru_plays}}
- Cost Per ThruPlay: AUD {{money .cost_per_thruplay}}
- Video Plays at 25%: {{.video_plays_25}}
- Video Plays at 50%: {{.video_plays_50}}
- Video Plays at 75%: {{.video_plays_75}}
- Video Plays at 95%: {{.video_plays_95}}
- Video Plays at 100%: {{.video_plays_100}}

Campaign Timeline:
- Starts: {{.starts}}
- Ends: {{.ends}}
- Reporting Period: {{.reporting_starts}} to {{.reporting_ends}}

Website: {{.website_url}}
Period: {{.month}}/{{.year}}
File: {{.file_name}}`)

func metaAds() *Definition {
	return &Definition{
		Name:        "meta_ads",
		Description: "Meta (Facebook/Instagram) ads daily performance exports",
		Table:       "meta_ads_performance",
		Folder:      "NBX/Meta Ads Export",
		Patterns:    []string{"meta_ads_export_*.csv"},
		Schema: &cleaner.Schema{
			Fields: []cleaner.Field{
				{Name: "day", Column: "Day", Kind: cleaner.Date, Nullable: true},
				{Name: "campaign_name", Column: "Campaign name", Kind: cleaner.Text},
				{Name: "ad_set_name", Column: "Ad set name", Kind: cleaner.Text},
				{Name: "ad_name", Column: "Ad name", Kind: cleaner.Text},
				{Name: "objective", Column: "Objective", Kind: cleaner.Text},
				{Name: "result_type", Column: "Result type", Kind: cleaner.Text},
				{Name: "website_url", Column: "Website URL", Kind: cleaner.Text},
				{Name: "starts", Column: "Starts", Kind: cleaner.Text},
				{Name: "ends", Column: "Ends", Kind: cleaner.Text},
				{Name: "reporting_starts", Column: "Reporting starts", Kind: cleaner.Text},
				{Name: "reporting_ends", Column: "Reporting ends", Kind: cleaner.Text},
				{Name: "reach", Column: "Reach", Kind: cleaner.Integer},
				{Name: "impressions", Column: "Impressions", Kind: cleaner.Integer},
				{Name: "frequency", Column: "Frequency", Kind: cleaner.Float},
				{Name: "results", Column: "Results", Kind: cleaner.Float},
				{Name: "amount_spent", Column: "Amount spent (AUD)", Kind: cleaner.Currency},
				{Name: "cost_per_result", Column: "Cost per result", Kind: cleaner.Currency},
				{Name: "link_clicks", Column: "Link clicks", Kind: cleaner.Integer},
				{Name: "cpc", Column: "CPC (cost per link click)", Kind: cleaner.Currency},
				{Name: "cpm", Column: "CPM (cost per 1,000 impressions)", Kind: cleaner.Currency},
				{Name: "video_avg_play_time", Column: "Video average play time", Kind: cleaner.Float},
				{Name: "cost_per_thruplay", Column: "Cost per ThruPlay", Kind: cleaner.Currency},
				{Name: "thru_plays", Column: "ThruPlays", Kind: cleaner.Integer},
				{Name: "video_plays_25", Column: "Video plays at 25%", Kind: cleaner.Integer},
				{Name: "video_plays_50", Column: "Video plays at 50%", Kind: cleaner.Integer},
				{Name: "video_plays_75", Column: "Video plays at 75%", Kind: cleaner.Integer},
				{Name: "video_plays_95", Column: "Video plays at 95%", Kind: cleaner.Integer},
				{Name: "video_plays_100", Column: "Video plays at 100%", Kind: cleaner.Integer},
			},
			Computed: []cleaner.Computed{
				boolean("has_results", cleaner.AnyPositive("results")),
				boolean("has_link_clicks", cleaner.AnyPositive("link_clicks")),
				boolean("has_video_content", cleaner.AnyPositive("thru_plays")),
			},
			Period:     cleaner.YearMonthSuffix{Prefix: "meta_ads_export_"},
			Provenance: periodParts,
			Template:   metaAdsTemplate,
		},
		KeyFields: []string{"day", "campaign_name", "ad_set_name", "ad_name"},
		Mode:      ModeBatch,
		Enabled:   true,
	}
}

// Organic social

var organicTemplate = cleaner.MustTemplate("organic_social", `Organic Social Media Post

Platform: {{.account_username}} ({{.account_name}})
Post ID: {{.post_id}}
Type: {{.post_type}}
Published: {{.publish_time}}
Period: {{.month_name}} {{.year}}

Description:
{{.description}}

Engagement Metrics:
- Views: {{comma .views}}
- Reach: {{comma .reach}}
- Likes: {{.likes}}
- Comments: {{.comments}}
- Shares: {{.shares}}
- Saves: {{.saves}}
- Follows: {{.follows}}
{{if positive .duration_sec}}
Video Duration: {{.duration_sec}}s
{{end}}
Link: {{.permalink}}
File: {{.file_name}}`)

func organicSocial() *Definition {
	return &Definition{
		Name:        "organic_social",
		Description: "Organic social media post exports (Meta Business Suite)",
		Table:       "organic_social_media",
		Folder:      "NBX/Organic Social Media",
		Patterns:    []string{"*.csv"},
		Schema: &cleaner.Schema{
			Fields: []cleaner.Field{
				{Name: "post_id", Column: "Post ID", Kind: cleaner.Text},
				{Name: "account_id", Column: "Account ID", Kind: cleaner.Text},
				{Name: "account_username", Column: "Account username", Kind: cleaner.Text},
				{Name: "account_name", Column: "Account name", Kind: cleaner.Text},
				{Name: "description", Column: "Description", Kind: cleaner.Text, Nullable: true},
				{Name: "duration_sec", Column: "Duration (sec)", Kind: cleaner.Integer},
				{Name: "publish_time", Column: "Publish time", Kind: cleaner.Text, Nullable: true},
				{Name: "permalink", Column: "Permalink", Kind: cleaner.Text, Nullable: true},
				{Name: "post_type", Column: "Post type", Kind: cleaner.Text, Nullable: true},
				{Name: "data_comment", Column: "Data comment", Kind: cleaner.Text, Nullable: true},
				{Name: "date", Column: "Date", Kind: cleaner.Text, Nullable: true},
				{Name: "views", Column: "Views", Kind: cleaner.Integer},
				{Name: "reach", Column: "Reach", Kind: cleaner.Integer},
				{Name: "likes", Column: "Likes", Kind: cleaner.Integer},
				{Name: "shares", Column: "Shares", Kind: cleaner.Integer},
				{Name: "follows", Column: "Follows", Kind: cleaner.Integer},
				{Name: "comments", Column: "Comments", Kind: cleaner.Integer},
				{Name: "saves", Column: "Saves", Kind: cleaner.Integer},
			},
			Computed: []cleaner.Computed{
				boolean("has_views", cleaner.AnyPositive("views")),
				boolean("has_engagement", cleaner.SumPositive("likes", "shares", "comments", "saves")),
				boolean("is_video", cleaner.Either(
					cleaner.ContainsAny("post_type", "reel", "video"),
					cleaner.AnyPositive("duration_sec"),
				)),
			},
			Period:     cleaner.DateRangePrefix{},
			Provenance: []string{cleaner.PartPeriod, cleaner.PartYear, cleaner.PartMonth, cleaner.PartMonthName},
			Template:   organicTemplate,
		},
		KeyFields: []string{"post_id"},
		Mode:      ModeBatch,
		Enabled:   true,
	}
}

// Uber Eats

var uberOffersTemplate = cleaner.MustTemplate("uber_eats_offers", `Uber Eats Promotional Offer

Offer: {{.offer}}
Promo Period: {{.promo_start_date}} to {{.promo_end_date}}
Customer Targeting: {{.customer_targeting}}

Items Included:
{{.items}}

File: {{.file_name}}`)

// fixedPrice is a "$" offer that is not a discount off something
func fixedPrice(row model.Row) interface{} {
	offer, _ := row["offer"].(string)
	return strings.Contains(offer, "$") && !strings.Contains(strings.ToLower(offer), "off")
}

func uberEatsOffers() *Definition {
	return &Definition{
		Name:        "uber_eats_offers",
		Description: "Uber Eats promotional offer exports",
		Table:       "uber_eats_offers",
		Folder:      "NBX/Uber Eats Promos",
		Patterns:    []string{"*Offers*.csv"},
		Schema: &cleaner.Schema{
			Fields: []cleaner.Field{
				{Name: "offer", Column: "Offer", Kind: cleaner.Text, Nullable: true},
				{Name: "promo_start_date", Column: "Promo Start Date", Kind: cleaner.Text, Nullable: true},
				{Name: "promo_end_date", Column: "Promo End Date", Kind: cleaner.Text, Nullable: true},
				{Name: "customer_targeting", Column: "Customer Targeting", Kind: cleaner.Text, Nullable: true},
				{Name: "items", Column: "Items", Kind: cleaner.Text, Nullable: true},
			},
			Computed: []cleaner.Computed{
				boolean("has_discount", cleaner.ContainsAny("offer", "%", "off")),
				boolean("has_fixed_price", fixedPrice),
			},
			Template: uberOffersTemplate,
		},
		KeyFields: []string{"offer", "promo_start_date", "promo_end_date"},
		Mode:      ModeBatch,
		Enabled:   true,
	}
}

var uberSalesTemplate = cleaner.MustTemplate("uber_eats_sales", `Uber Eats Sales Record

Date: {{.date}}
Store: {{.store_name}}
Channel: {{.channel_type}}
Total Sales: ${{money .total_sales}}
{{if .month_name}}
Period: {{.month_name}} {{.year}}
{{end}}
File: {{.file_name}}`)

func uberEatsSales() *Definition {
	return &Definition{
		Name:        "uber_eats_sales",
		Description: "Uber Eats daily sales exports",
		Table:       "uber_eats_sales",
		Folder:      "NBX/Uber Eats Promos",
		Patterns:    []string{"*Sales*.csv"},
		Schema: &cleaner.Schema{
			Fields: []cleaner.Field{
				{Name: "date", Column: "Date", Kind: cleaner.Text, Nullable: true},
				{Name: "store_name", Column: "Store Name", Kind: cleaner.Text, Nullable: true},
				{Name: "channel_type", Column: "Channel Type", Kind: cleaner.Text, Nullable: true},
				{Name: "total_sales", Column: "Total Sales", Kind: cleaner.Currency},
				{Name: "parsed_date", Column: "Date", Kind: cleaner.Date, Nullable: true},
			},
			Computed: []cleaner.Computed{
				boolean("has_sales", cleaner.AnyPositive("total_sales")),
			},
			PeriodFromField: "parsed_date",
			Provenance:      []string{cleaner.PartYear, cleaner.PartMonth, cleaner.PartMonthName, cleaner.PartPeriod},
			Template:        uberSalesTemplate,
		},
		KeyFields: []string{"date", "store_name", "channel_type", "total_sales"},
		Mode:      ModeBatch,
		Enabled:   true,
	}
}

// Power BI

var powerBITemplate = cleaner.MustTemplate("powerbi_sales", `Power BI Sales Record

Store: {{.store_name}}
Total Sales: ${{money .total_sales}} AUD
Period: {{.month_name}} {{.year}}
Month: {{.month}}
File: {{.file_name}}`)

func powerBISales() *Definition {
	return &Definition{
		Name:        "powerbi_sales",
		Description: "Power BI like-for-like store sales exports",
		Table:       "powerbi_sales",
		Folder:      "NBX/Power BI",
		Patterns:    []string{"*.csv"},
		Reader:      reader.Options{HeaderGuard: "Store Name"},
		Schema: &cleaner.Schema{
			Fields: []cleaner.Field{
				{Name: "store_name", Column: "Store Name", Kind: cleaner.Text},
				{Name: "total_sales", Column: "Total Sales", Kind: cleaner.Currency},
				{Name: "year", Column: "Year", Kind: cleaner.Text, Nullable: true, Fallback: cleaner.PartYear},
				{Name: "month_name", Column: "Month Name", Kind: cleaner.Text, Nullable: true, Fallback: cleaner.PartMonthName},
			},
			Period: cleaner.FirstMatch{
				cleaner.YearMonthSuffix{Prefix: "powerbi_LFL_Sales_"},
				cleaner.MonthYearPair{},
			},
			Provenance: []string{cleaner.PartPeriod, cleaner.PartMonth},
			Template:   powerBITemplate,
		},
		Mode:     ModeRow,
		RowDelay: defaultRowDelay,
		Enabled:  true,
	}
}

// TikTok Ads

var tiktokTemplate = cleaner.MustTemplate("tiktok_ads", `TikTok Ads Performance Record

Date: {{.day}}
Campaign: {{.campaign_name}}
Ad Group: {{.ad_group_name}}
Ad Name: {{.ad_name}}
Website URL: {{.website_url}}

Performance Metrics:
- Cost: {{.currency_code}} {{money .cost}}
- CPM (Cost Per 1000 Impressions): {{.currency_code}} {{money .cpm}}
- CPC (Cost Per Click): {{.currency_code}} {{money .cpc}}
- Impressions: {{comma .impressions}}
- Clicks: {{.clicks}}
- Click-Through Rate (CTR): {{.ctr}}%
- Reach: {{comma .reach}}
- Cost per 1,000 Reached: {{.currency_code}} {{money .cost_per_1000_reached}}
- Frequency: {{.frequency}}

Video Performance:
- Total Video Views: {{comma .video_views}}
- 2-Second Views: {{comma .video_views_2s}}
- 6-Second Views: {{comma .video_views_6s}}
- Video Completion Rates:
  * 25% Completion: {{comma .video_views_25}}
  * 50% Completion: {{comma .video_views_50}}
  * 75% Completion: {{comma .video_views_75}}
  * 100% Completion: {{comma .video_views_100}}
- Average Play Time Per View: {{.avg_play_time_per_view}}s
- Average Play Time Per User: {{.avg_play_time_per_user}}s

Period: {{.month}}/{{.year}}
File: {{.file_name}}`)

func tiktokSchema(zeroLoss bool) *cleaner.Schema {
	return &cleaner.Schema{
		Fields: []cleaner.Field{
			{Name: "day", Column: "By Day", Kind: cleaner.Date, Nullable: true},
			{Name: "campaign_name", Column: "Campaign name", Kind: cleaner.Text},
			{Name: "ad_group_name", Column: "Ad group name", Kind: cleaner.Text},
			{Name: "ad_name", Column: "Ad name", Kind: cleaner.Text},
			{Name: "website_url", Column: "Website URL (Ad level）", Kind: cleaner.Text},
			{Name: "currency_code", Column: "Currency", Kind: cleaner.Text, Default: "AUD"},
			{Name: "cost", Column: "Cost", Kind: cleaner.Currency},
			{Name: "cpc", Column: "CPC (destination)", Kind: cleaner.Currency},
			{Name: "cpm", Column: "CPM", Kind: cleaner.Currency},
			{Name: "impressions", Column: "Impressions", Kind: cleaner.Integer},
			{Name: "clicks", Column: "Clicks (destination)", Kind: cleaner.Integer},
			{Name: "ctr", Column: "CTR (destination)", Kind: cleaner.Float},
			{Name: "reach", Column: "Reach", Kind: cleaner.Integer},
			{Name: "cost_per_1000_reached", Column: "Cost per 1,000 people reached", Kind: cleaner.Currency},
			{Name: "frequency", Column: "Frequency", Kind: cleaner.Float},
			{Name: "video_views", Column: "Video views", Kind: cleaner.Integer},
			{Name: "video_views_2s", Column: "2-second video views", Kind: cleaner.Integer},
			{Name: "video_views_6s", Column: "6-second video views", Kind: cleaner.Integer},
			{Name: "video_views_100", Column: "Video views at 100%", Kind: cleaner.Integer},
			{Name: "video_views_75", Column: "Video views at 75%", Kind: cleaner.Integer},
			{Name: "video_views_50", Column: "Video views at 50%", Kind: cleaner.Integer},
			{Name: "video_views_25", Column: "Video views at 25%", Kind: cleaner.Integer},
			{Name: "avg_play_time_per_view", Column: "Average play time per video view", Kind: cleaner.Float},
			{Name: "avg_play_time_per_user", Column: "Average play time per user", Kind: cleaner.Float},
		},
		Computed: []cleaner.Computed{
			boolean("has_clicks", cleaner.AnyPositive("clicks")),
			boolean("has_video_views", cleaner.AnyPositive("video_views")),
			{Name: "completion_rate", Kind: model.KindFloat, Func: cleaner.Ratio("video_views_100", "video_views", 100)},
		},
		Period:     cleaner.YearMonthSuffix{Prefix: "tiktok_ads_export_"},
		Provenance: periodParts,
		ZeroLoss:   zeroLoss,
		Template:   tiktokTemplate,
	}
}

func tiktokAds() *Definition {
	return &Definition{
		Name:        "tiktok_ads",
		Description: "TikTok ads daily performance exports",
		Table:       "tiktok_ads_performance",
		Folder:      "NBX/TikTok Ads Export",
		Patterns:    []string{"tiktok_ads_export_*.csv"},
		Schema:      tiktokSchema(false),
		KeyFields:   []string{"day", "campaign_name", "ad_group_name", "ad_name"},
		Mode:        ModeBatch,
		Enabled:     true,
	}
}

func tiktokAdsDocuments() *Definition {
	return &Definition{
		Name:        "tiktok_ads_documents",
		Description: "TikTok ads exports as embedded documents with the original row preserved",
		Table:       "tiktok_ads_documents",
		Folder:      "NBX/TikTok Ads Export",
		Patterns:    []string{"tiktok_ads_export_*.csv"},
		Schema:      tiktokSchema(true),
		Mode:        ModeRow,
		RowDelay:    defaultEmbedRowDelay,
		Layout:      LayoutDocument,
		SourceType:  "tiktok_ads",
		Embed:       true,
		Enabled:     false,
	}
}

// Google Ads

var googlePerformanceTemplate = cleaner.MustTemplate("google_ads_performance", `Google Ads Performance Record

Date: {{.day}}
Campaign: {{.campaign}}
Campaign Type: {{.campaign_type}}
Ad Group: {{.ad_group}}
Landing Page: {{.landing_page}}

Performance Metrics:
- Cost: {{.currency_code}} {{money .cost}}
- Impressions: {{comma .impressions}}
- Clicks: {{.clicks}}
- Click-Through Rate (CTR): {{.ctr}}%
- Average Cost Per Click (CPC): {{.currency_code}} {{money .avg_cpc}}
- Conversions: {{.conversions}}
- Conversion Rate: {{.conversion_rate}}%

Period: {{.month}}/{{.year}}
File: {{.file_name}}`)

var googleActionsTemplate = cleaner.MustTemplate("google_ads_actions", `Google Ads Conversion Action Record

Date: {{.day}}
Campaign: {{.campaign}}
Ad Group: {{.ad_group}}
Conversion Action: {{.conversion_action}}
Conversions: {{.conversions}}

Period: {{.month}}/{{.year}}
File: {{.file_name}}`)

// Google Ads exports start with a report title line and a date range line
var googleReader = reader.Options{PreambleLines: 2}

func googlePerformanceSchema(zeroLoss bool) *cleaner.Schema {
	return &cleaner.Schema{
		Fields: []cleaner.Field{
			{Name: "day", Column: "Day", Kind: cleaner.Date, Nullable: true},
			{Name: "campaign", Column: "Campaign", Kind: cleaner.Text},
			{Name: "campaign_type", Column: "Campaign type", Kind: cleaner.Text},
			{Name: "ad_group", Column: "Ad group", Kind: cleaner.Text},
			{Name: "landing_page", Column: "Landing page", Kind: cleaner.Text},
			{Name: "currency_code", Column: "Currency code", Kind: cleaner.Text, Default: "AUD"},
			{Name: "cost", Column: "Cost", Kind: cleaner.Currency},
			{Name: "impressions", Column: "Impr.", Kind: cleaner.Integer},
			{Name: "clicks", Column: "Clicks", Kind: cleaner.Integer},
			{Name: "ctr", Column: "CTR", Kind: cleaner.Float},
			{Name: "avg_cpc", Column: "Avg. CPC", Kind: cleaner.Currency},
			{Name: "conversions", Column: "Conversions", Kind: cleaner.Float},
			{Name: "conversion_rate", Column: "Conv. rate", Kind: cleaner.Float},
		},
		Computed: []cleaner.Computed{
			boolean("has_conversions", cleaner.AnyPositive("conversions")),
			boolean("has_clicks", cleaner.AnyPositive("clicks")),
			{Name: "cost_per_conversion", Kind: model.KindFloat, Func: cleaner.NullableRatio("cost", "conversions"), Nullable: true},
		},
		Period:       cleaner.YearMonthSuffix{Prefix: "google_ads_performance_"},
		Provenance:   periodParts,
		ReportHeader: true,
		ZeroLoss:     zeroLoss,
		Template:     googlePerformanceTemplate,
	}
}

func googleActionsSchema(zeroLoss bool) *cleaner.Schema {
	return &cleaner.Schema{
		Fields: []cleaner.Field{
			{Name: "day", Column: "Day", Kind: cleaner.Date, Nullable: true},
			{Name: "campaign", Column: "Campaign", Kind: cleaner.Text},
			{Name: "ad_group", Column: "Ad group", Kind: cleaner.Text},
			{Name: "conversion_action", Column: "Conversion action", Kind: cleaner.Text},
			{Name: "conversions", Column: "Conversions", Kind: cleaner.Float},
		},
		Period:       cleaner.YearMonthSuffix{Prefix: "google_ads_actions_"},
		Provenance:   periodParts,
		ReportHeader: true,
		ZeroLoss:     zeroLoss,
		Template:     googleActionsTemplate,
	}
}

func googleAdsPerformance() *Definition {
	return &Definition{
		Name:        "google_ads_performance",
		Description: "Google Ads campaign performance reports",
		Table:       "google_ads_performance",
		Folder:      "NBX/Google Ads Export",
		Patterns:    []string{"google_ads_performance_*.csv"},
		Reader:      googleReader,
		Schema:      googlePerformanceSchema(false),
		KeyFields:   []string{"day", "campaign", "ad_group", "landing_page"},
		Mode:        ModeBatch,
		Enabled:     true,
	}
}

func googleAdsActions() *Definition {
	return &Definition{
		Name:        "google_ads_actions",
		Description: "Google Ads conversion action reports",
		Table:       "google_ads_actions",
		Folder:      "NBX/Google Ads Export",
		Patterns:    []string{"google_ads_actions_*.csv"},
		Reader:      googleReader,
		Schema:      googleActionsSchema(false),
		KeyFields:   []string{"day", "campaign", "ad_group", "conversion_action"},
		Mode:        ModeBatch,
		Enabled:     true,
	}
}

func googleAdsPerformanceDocuments() *Definition {
	return &Definition{
		Name:        "google_ads_performance_documents",
		Description: "Google Ads performance reports as embedded documents",
		Table:       "google_ads_documents",
		Folder:      "NBX/Google Ads Export",
		Patterns:    []string{"google_ads_performance_*.csv"},
		Reader:      googleReader,
		Schema:      googlePerformanceSchema(true),
		Mode:        ModeRow,
		RowDelay:    defaultEmbedRowDelay,
		Layout:      LayoutDocument,
		SourceType:  "google_ads_performance",
		Embed:       true,
		Enabled:     false,
	}
}

func googleAdsActionsDocuments() *Definition {
	return &Definition{
		Name:        "google_ads_actions_documents",
		Description: "Google Ads conversion action reports as embedded documents",
		Table:       "google_ads_documents",
		Folder:      "NBX/Google Ads Export",
		Patterns:    []string{"google_ads_actions_*.csv"},
		Reader:      googleReader,
		Schema:      googleActionsSchema(true),
		Mode:        ModeRow,
		RowDelay:    defaultEmbedRowDelay,
		Layout:      LayoutDocument,
		SourceType:  "google_ads_actions",
		Embed:       true,
		Enabled:     false,
	}
}
