package extract

import "go.uber.org/zap"

// NewLiepin returns the strategy for liepin.com.
func NewLiepin(logger *zap.Logger) Strategy {
	return newSiteStrategy(site{
		platform: PlatformLiepin,

		resumeURLParts: []string{"/resume/", "/cv/"},
		resumeMarkers:  `.resume-detail, [class*="resume-detail"], [class*="cv-detail"]`,
		listURLParts:   []string{"/recommend", "/search", "/talent"},
		listMarkers:    `[class*="candidate-list"], [class*="resume-list"], [class*="talent-list"]`,

		name: []string{
			`[class*="name"], .candidate-name, .resume-name`,
			"h1, h2",
		},
		title: []string{
			`[class*="expect"], [class*="position"], [class*="title"]`,
			".job-title",
		},
		infoTags: `[class*="info"] span, [class*="basic"] span, [class*="tag"] span, [class*="detail"] span`,
		detailRules: Rules{
			rule(BucketExperience, `\d+年|应届|在校|经验`),
			rule(BucketEducation, `本科|硕士|博士|大专|高中|MBA|统招`),
			rule(BucketAge, `\d+岁`),
			rule(BucketSalary, `K|k|薪|工资|万|月薪|年薪`),
			rule(BucketLocation, `市|省|区|北京|上海|广州|深圳|杭州|苏州|成都|武汉|南京`),
		},
		skills:    `[class*="skill"] span, [class*="tag-item"], [class*="label"] span`,
		work:      `[class*="work-exp"], [class*="work-experience"], [class*="career"], [class*="experience-item"]`,
		education: `[class*="edu"], [class*="education"], [class*="school"]`,
		projects:  `[class*="project"]`,
		selfDesc: []string{
			`[class*="self-evaluation"], [class*="self-desc"], [class*="advantage"], [class*="evaluation"], [class*="description"]`,
		},
		main: `[class*="resume-detail"], [class*="cv-detail"], main, #main, #app`,

		cards: []string{
			`[class*="candidate-card"], [class*="resume-card"], [class*="talent-card"], [class*="candidate-item"], [class*="resume-item"]`,
			`.list-item, [class*="list-item"], [class*="card-inner"]`,
		},
		cardName:  `[class*="name"], a[class*="name"]`,
		cardTitle: `[class*="expect"], [class*="position"], [class*="title"]`,
		cardTags:  "span",
		cardRules: Rules{
			rule(BucketExperience, `\d+年|应届`),
			rule(BucketEducation, `本科|硕士|博士|大专`),
			rule(BucketAge, `\d+岁`),
			rule(BucketSalary, `K|k|万|薪`),
			rule(BucketLocation, `市|北京|上海|广州|深圳|杭州|苏州`),
		},
		cardSkills: `[class*="skill"] span, [class*="tag"]`,
	}, logger)
}
