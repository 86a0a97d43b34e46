package domain

import "fmt"

// NominationType 提名类型（固定 6 类影响力维度）
// 用 int 枚举 + 查找表，避免按字符串动态取字段
type NominationType int

const (
	DiscussionLeader NominationType = iota
	ReferralLeader
	AdviceLeader
	NationalLeader
	RisingStar
	SocialLeader

	nominationTypeCount
)

// NominationTypeCount 提名类型总数（用于定长数组下标）
const NominationTypeCount = int(nominationTypeCount)

var nominationTypeCodes = [NominationTypeCount]string{
	DiscussionLeader: "discussion_leader",
	ReferralLeader:   "referral_leader",
	AdviceLeader:     "advice_leader",
	NationalLeader:   "national_leader",
	RisingStar:       "rising_star",
	SocialLeader:     "social_leader",
}

// AllNominationTypes 固定顺序的类型列表（遍历用）
var AllNominationTypes = [NominationTypeCount]NominationType{
	DiscussionLeader,
	ReferralLeader,
	AdviceLeader,
	NationalLeader,
	RisingStar,
	SocialLeader,
}

// Valid 是否是已定义的提名类型
func (t NominationType) Valid() bool {
	return t >= 0 && t < nominationTypeCount
}

// Code 类型编码（DB 存储值）
func (t NominationType) Code() string {
	if !t.Valid() {
		return ""
	}
	return nominationTypeCodes[t]
}

// ParseNominationType 从编码解析提名类型
func ParseNominationType(code string) (NominationType, error) {
	for _, t := range AllNominationTypes {
		if nominationTypeCodes[t] == code {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown nomination type %q", code)
}
