// Package analysis 将习惯的打卡日期换算为按周期划分的完成序列，
// 并在其上计算最长连续完成数与中断次数。
//
// 序列只在请求时生成，不做缓存：
//   - 从未打卡的习惯返回空序列，表示“尚未开始”；
//   - 有历史但统计区间内没有打卡时，返回区间天数个未完成记录，表示“已中断”。
//
// 两种结果含义不同，调用方不应将空序列视作全部未完成。
package analysis
