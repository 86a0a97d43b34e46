package repository

import "kol360-data/internal/domain"

// typeColumnPair 提名类型对应的 count/score 列对
type typeColumnPair struct {
	Count string
	Score string
}

// nominationTypeColumns 提名类型 → hcp_campaign_scores 列对查找表
// 与 domain.NominationType 枚举一一对应；增删类型只改枚举和这张表
var nominationTypeColumns = [domain.NominationTypeCount]typeColumnPair{
	domain.DiscussionLeader: {"discussion_leader_count", "discussion_leader_score"},
	domain.ReferralLeader:   {"referral_leader_count", "referral_leader_score"},
	domain.AdviceLeader:     {"advice_leader_count", "advice_leader_score"},
	domain.NationalLeader:   {"national_leader_count", "national_leader_score"},
	domain.RisingStar:       {"rising_star_count", "rising_star_score"},
	domain.SocialLeader:     {"social_leader_count", "social_leader_score"},
}

// objectiveDimensionColumns 客观维度 → hcp_disease_area_scores 评分列查找表
var objectiveDimensionColumns = [domain.ObjectiveDimensionCount]string{
	domain.Publications:      "publications_score",
	domain.ClinicalTrials:    "clinical_trials_score",
	domain.TradePublications: "trade_publications_score",
	domain.OrgLeadership:     "org_leadership_score",
	domain.OrgAwareness:      "org_awareness_score",
	domain.Conferences:       "conferences_score",
	domain.SocialMedia:       "social_media_score",
	domain.MediaMentions:     "media_mentions_score",
}

// objectiveWeightColumns 客观维度 → composite_score_configs 权重列查找表
var objectiveWeightColumns = [domain.ObjectiveDimensionCount]string{
	domain.Publications:      "w_publications",
	domain.ClinicalTrials:    "w_clinical_trials",
	domain.TradePublications: "w_trade_publications",
	domain.OrgLeadership:     "w_org_leadership",
	domain.OrgAwareness:      "w_org_awareness",
	domain.Conferences:       "w_conferences",
	domain.SocialMedia:       "w_social_media",
	domain.MediaMentions:     "w_media_mentions",
}
